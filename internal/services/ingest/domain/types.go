// Package domain defines core types and interfaces for batch ingestion
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts must round-trip as exact numeric values, not quoted strings
	// and never through float64
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType names the two batch kinds the gateway accepts
type RecordType string

const (
	// RecordTypeTransactions is the account transaction feed
	RecordTypeTransactions RecordType = "transactions"

	// RecordTypeApplications is the loan application feed
	RecordTypeApplications RecordType = "applications"
)

// AuthMethod names the credential scheme that authenticated a caller
type AuthMethod string

const (
	// AuthMethodAPIKey is an exact match against the configured static key set
	AuthMethodAPIKey AuthMethod = "api_key"

	// AuthMethodSignedToken is a locally verified signed token
	AuthMethodSignedToken AuthMethod = "signed_token"

	// AuthMethodFederated is a perimeter-authenticated federated token,
	// trusted by issuer claim without local signature verification
	AuthMethodFederated AuthMethod = "federated"
)

// VerifiedIdentity is the normalized outcome of a successful credential check
// created fresh per request and never persisted
type VerifiedIdentity struct {
	Subject    string
	Method     AuthMethod
	Claims     map[string]any // signed-token claims pass through as-is
	VerifiedAt time.Time
}

// StoredObjectReference is the durable address of a written batch
// the only identifier a batch has once ingested
type StoredObjectReference struct {
	URI       string    `json:"uri"`
	WrittenAt time.Time `json:"written_at"`
}

// IngestionEvent is the wire payload published to the event bus
// carries only the object reference and batch metadata, never raw records
type IngestionEvent struct {
	ObjectURI   string     `json:"object_uri"`
	Source      string     `json:"source"`
	RecordType  RecordType `json:"record_type"`
	RecordCount int        `json:"record_count"`
	OccurredAt  time.Time  `json:"occurred_at"`
	EventType   string     `json:"event_type"`
}

// EventTypeIngestionCompleted tags every published ingestion event
const EventTypeIngestionCompleted = "ingestion.completed"

// IngestionResult is the caller-visible outcome of one ingestion
// MessageID absent is a valid, non-error state: success means the batch is
// durably stored, never that the notification was delivered
type IngestionResult struct {
	Status      string     `json:"status"`
	ObjectURI   string     `json:"object_uri"`
	MessageID   string     `json:"message_id,omitempty"`
	RecordType  RecordType `json:"record_type"`
	RecordCount int        `json:"record_count"`
	IngestedAt  time.Time  `json:"ingested_at"`
}

// StatusSuccess is the only status a returned IngestionResult carries;
// failures surface as errors instead
const StatusSuccess = "success"

// Batch is the minimal view the pipeline needs over either batch kind
type Batch interface {
	// BatchSource returns the source system identifier
	BatchSource() string
	// RecordCount returns the number of records in the batch
	RecordCount() int
}

// Transaction is one account transaction record
type Transaction struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	AccountID     string  `json:"account_id" validate:"required"`
	CustomerID    *string `json:"customer_id,omitempty"`

	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,currency_iso"`

	PostedAt    time.Time `json:"posted_at" validate:"required"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`

	MCC          *string `json:"mcc,omitempty"`
	Counterparty *string `json:"counterparty,omitempty" validate:"omitempty,max=200"`

	TransactionType string  `json:"transaction_type" validate:"required,txn_type"`
	Channel         *string `json:"channel,omitempty"`
}

// TransactionBatch is a batch of transactions from one source system
type TransactionBatch struct {
	Source       string        `json:"source" validate:"required"`
	BatchID      *string       `json:"batch_id,omitempty"`
	Transactions []Transaction `json:"transactions" validate:"required,min=1,max=10000,dive"`
}

// BatchSource implements Batch
func (b TransactionBatch) BatchSource() string { return b.Source }

// RecordCount implements Batch
func (b TransactionBatch) RecordCount() int { return len(b.Transactions) }

// Normalize canonicalizes enum-like fields after validation
func (b *TransactionBatch) Normalize() {
	for i := range b.Transactions {
		t := &b.Transactions[i]
		t.Currency = strings.ToUpper(t.Currency)
		t.TransactionType = strings.ToLower(t.TransactionType)
	}
}

// LoanApplication is one loan application record
type LoanApplication struct {
	ApplicationID string  `json:"application_id" validate:"required"`
	CustomerID    string  `json:"customer_id" validate:"required"`
	AccountID     *string `json:"account_id,omitempty"`

	LoanAmount     decimal.Decimal  `json:"loan_amount" validate:"decimal_gt0"`
	LoanPurpose    string           `json:"loan_purpose" validate:"required,loan_purpose"`
	LoanTermMonths int              `json:"loan_term_months" validate:"required,min=1,max=360"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,decimal_pct"`

	AnnualIncome           *decimal.Decimal `json:"annual_income,omitempty" validate:"omitempty,decimal_gte0"`
	EmploymentStatus       *string          `json:"employment_status,omitempty"`
	EmploymentLengthMonths *int             `json:"employment_length_months,omitempty" validate:"omitempty,min=0"`

	CreditScore  *int             `json:"credit_score,omitempty" validate:"omitempty,min=300,max=850"`
	ExistingDebt *decimal.Decimal `json:"existing_debt,omitempty" validate:"omitempty,decimal_gte0"`

	AppliedAt time.Time `json:"applied_at" validate:"required"`
	Channel   *string   `json:"channel,omitempty"`
}

// ApplicationBatch is a batch of loan applications from one source system
type ApplicationBatch struct {
	Source       string            `json:"source" validate:"required"`
	BatchID      *string           `json:"batch_id,omitempty"`
	Applications []LoanApplication `json:"applications" validate:"required,min=1,max=1000,dive"`
}

// BatchSource implements Batch
func (b ApplicationBatch) BatchSource() string { return b.Source }

// RecordCount implements Batch
func (b ApplicationBatch) RecordCount() int { return len(b.Applications) }

// Normalize canonicalizes enum-like fields after validation
func (b *ApplicationBatch) Normalize() {
	for i := range b.Applications {
		a := &b.Applications[i]
		a.LoanPurpose = canonicalPurpose(a.LoanPurpose)
	}
}

func canonicalPurpose(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
