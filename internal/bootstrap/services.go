package bootstrap

import (
	"log/slog"

	"github.com/target/tgchat/config"
	"github.com/target/tgchat/internal/observability/metrics"
	"github.com/target/tgchat/internal/ports"
	"github.com/target/tgchat/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth *service.AuthService
	Chat *service.ChatService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config   *config.AppConfig
	Sessions ports.SessionStore
	Clients  ports.ClientFactory
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// NewServices wires the auth and chat services over one session service.
func NewServices(deps ServiceDeps) ServiceContainer {
	sessions := service.NewSessionService(deps.Sessions)
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	return ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Clients:  deps.Clients,
			Sessions: sessions,
			Config: service.AuthConfig{
				TempTTL: cfg.Session.TempTTL,
				Metrics: deps.Metrics,
				Logger:  deps.Logger,
			},
		}),
		Chat: service.NewChatService(service.ChatServiceOptions{
			Clients:  deps.Clients,
			Sessions: sessions,
			Config: service.ChatConfig{
				ServiceAccountPayload:  cfg.Telegram.SessionString,
				ServiceAccountFallback: cfg.Telegram.ServiceAccountFallback,
				Logger:                 deps.Logger,
			},
		}),
	}
}
