// Package http exposes the ingestion endpoints
package http

import (
	stdhttp "net/http"
	"strings"

	perr "riskgate/internal/platform/errors"
	pnet "riskgate/internal/platform/net"
	phttp "riskgate/internal/platform/net/http"
	"riskgate/internal/platform/net/http/bind"
	"riskgate/internal/services/ingest/domain"
)

// Handler carries the seams the endpoints need
type Handler struct {
	verifier domain.VerifierPort
	ingest   domain.IngestPort
	health   domain.HealthPort
	service  string
	version  string
}

// NewHandler builds the endpoint handler
func NewHandler(verifier domain.VerifierPort, ingest domain.IngestPort, health domain.HealthPort, service, version string) *Handler {
	return &Handler{verifier: verifier, ingest: ingest, health: health, service: service, version: version}
}

// bearerToken extracts the credential from the Authorization header
// accepts both "Bearer <token>" and a bare token for parity with clients
// that send the raw key
func bearerToken(r *stdhttp.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// Root is the service banner endpoint
func (h *Handler) Root(r *stdhttp.Request) phttp.Response {
	return phttp.OK(map[string]string{
		"service": h.service,
		"version": h.version,
		"status":  "running",
	})
}

// Health reports backend reachability
func (h *Handler) Health(r *stdhttp.Request) phttp.Response {
	return phttp.OK(h.health.Check(r.Context()))
}

// IngestTransactions accepts a transaction batch
func (h *Handler) IngestTransactions(r *stdhttp.Request) phttp.Response {
	cred := bearerToken(r)
	if cred == "" {
		return phttp.Error(perr.Unauthorizedf("missing bearer credential"))
	}

	batch, err := bind.ParseJSON[domain.TransactionBatch](r)
	if err != nil {
		return phttp.Error(err)
	}
	batch.Normalize()

	res, err := h.ingest.Ingest(r.Context(), cred, batch, domain.RecordTypeTransactions)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.Created(res)
}

// IngestApplications accepts a loan application batch
func (h *Handler) IngestApplications(r *stdhttp.Request) phttp.Response {
	cred := bearerToken(r)
	if cred == "" {
		return phttp.Error(perr.Unauthorizedf("missing bearer credential"))
	}

	batch, err := bind.ParseJSON[domain.ApplicationBatch](r)
	if err != nil {
		return phttp.Error(err)
	}
	batch.Normalize()

	res, err := h.ingest.Ingest(r.Context(), cred, batch, domain.RecordTypeApplications)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.Created(res)
}

// WhoAmI verifies a credential without ingesting anything; useful for
// integration smoke checks of the auth cascade
func (h *Handler) WhoAmI(r *stdhttp.Request) phttp.Response {
	cred := bearerToken(r)
	if cred == "" {
		return phttp.Error(perr.Unauthorizedf("missing bearer credential"))
	}
	ident, err := h.verifier.Verify(cred)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(map[string]any{
		"subject":     ident.Subject,
		"auth_method": ident.Method,
	})
}

// identityMiddleware stamps the verified subject into the request context
// for access logging; verification failures are left for the handler so the
// error envelope stays uniform
func (h *Handler) identityMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if cred := bearerToken(r); cred != "" {
			if ident, err := h.verifier.Verify(cred); err == nil {
				pnet.SetSubject(r.Context(), ident.Subject)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// MountRoutes wires the endpoints onto the router
func (h *Handler) MountRoutes(r phttp.Router) {
	r.Get("/", phttp.Handle(h.Root))
	r.Get("/health", phttp.Handle(h.Health))
	r.Group(func(g phttp.Router) {
		g.Use(h.identityMiddleware)
		g.Get("/whoami", phttp.Handle(h.WhoAmI))
		g.Post("/transactions", phttp.Handle(h.IngestTransactions))
		g.Post("/applications", phttp.Handle(h.IngestApplications))
	})
}
