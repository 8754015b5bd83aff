// Package module assembles the ingest service from its parts
package module

import (
	"time"

	"riskgate/internal/platform/config"
	"riskgate/internal/platform/logger"
	phttp "riskgate/internal/platform/net/http"
	"riskgate/internal/platform/store"
	"riskgate/internal/services/ingest/auth"
	"riskgate/internal/services/ingest/domain"
	ingesthttp "riskgate/internal/services/ingest/http"
	"riskgate/internal/services/ingest/service"
)

// devSecret is the fallback signing secret for local runs; never for prod
const devSecret = "dev-secret-change-in-production"

// Config is the assembled service configuration
type Config struct {
	Auth        auth.Config
	Topic       string
	PublishWait time.Duration
	Container   string
}

// FromConf reads the service configuration from the environment
// insecure defaults are logged loudly so a misdeployed instance is visible
func FromConf(cfg config.Conf) Config {
	log := logger.Named("ingest")

	authCfg := cfg.Prefix("AUTH_")
	secret := authCfg.MayString("JWT_SECRET", devSecret)
	if secret == devSecret {
		log.Warn().Msg("using development signing secret; set AUTH_JWT_SECRET")
	}
	keys := authCfg.MayStrings("API_KEYS", nil)
	if len(keys) == 0 {
		log.Warn().Msg("no static API keys configured; only token auth will succeed")
	}

	busCfg := cfg.Prefix("BUS_")

	return Config{
		Auth: auth.Config{
			APIKeys: keys,
			Secret:  secret,
			Alg:     authCfg.MayString("JWT_ALG", "HS256"),
			Issuer:  authCfg.MayString("JWT_ISSUER", "risk-platform"),
			FederatedIssuers: authCfg.MayStrings("FEDERATED_ISSUERS", []string{
				"accounts.google.com",
				"https://accounts.google.com",
			}),
		},
		Topic:       busCfg.MayString("TOPIC", "ingestion-events"),
		PublishWait: busCfg.MayDuration("PUBLISH_TIMEOUT", service.DefaultPublishWait),
		Container:   cfg.Prefix("BLOB_").MayString("CONTAINER", "raw-batches"),
	}
}

// Module is the wired ingest service
type Module struct {
	verifier *auth.Verifier
	svc      *service.Service
	health   *service.Health
	handler  *ingesthttp.Handler
}

// New wires the service over an opened store
func New(st *store.Store, cfg Config, opts ...Option) *Module {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	domain.RegisterValidations()

	verifier := auth.New(cfg.Auth)
	writer := service.NewWriter(st.Blob)
	notifier := service.NewNotifier(st.Bus, cfg.Topic, cfg.PublishWait)
	svc := service.NewService(verifier, writer, notifier)
	health := service.NewHealth(st, cfg.Container, cfg.Topic)

	return &Module{
		verifier: verifier,
		svc:      svc,
		health:   health,
		handler:  ingesthttp.NewHandler(verifier, svc, health, o.serviceName, o.version),
	}
}

// MountRoutes attaches the service endpoints to the router
func (m *Module) MountRoutes(r phttp.Router) {
	m.handler.MountRoutes(r)
}

// Verifier exposes the credential verifier for out-of-band checks
func (m *Module) Verifier() domain.VerifierPort { return m.verifier }
