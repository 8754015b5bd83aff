package domain

import (
	"strings"
	"sync"

	"riskgate/internal/platform/net/http/bind"

	"github.com/shopspring/decimal"
)

var transactionTypes = map[string]bool{
	"debit": true, "credit": true, "transfer": true,
	"fee": true, "interest": true, "adjustment": true,
}

var loanPurposes = map[string]bool{
	"personal": true, "business": true, "home_improvement": true,
	"debt_consolidation": true, "auto": true, "education": true,
	"medical": true, "other": true,
}

var registerOnce sync.Once

// RegisterValidations installs the batch validation tags on the shared
// validator; safe to call more than once
func RegisterValidations() {
	registerOnce.Do(func() {
		_ = bind.RegisterValidation("currency_iso", func(fl bind.FieldLevel) bool {
			s := fl.Field().String()
			if len(s) != 3 {
				return false
			}
			for _, r := range s {
				if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
					return false
				}
			}
			return true
		})

		_ = bind.RegisterValidation("txn_type", func(fl bind.FieldLevel) bool {
			return transactionTypes[strings.ToLower(fl.Field().String())]
		})

		_ = bind.RegisterValidation("loan_purpose", func(fl bind.FieldLevel) bool {
			return loanPurposes[canonicalPurpose(fl.Field().String())]
		})

		_ = bind.RegisterValidation("decimal_gt0", func(fl bind.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && d.IsPositive()
		})

		_ = bind.RegisterValidation("decimal_gte0", func(fl bind.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && !d.IsNegative()
		})

		_ = bind.RegisterValidation("decimal_pct", func(fl bind.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
		})
	})
}
