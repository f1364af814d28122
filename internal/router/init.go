package router

import (
	"github.com/alterlapsus/auth-api/internal/application"
	"github.com/alterlapsus/auth-api/internal/container"
	pginfra "github.com/alterlapsus/auth-api/internal/infrastructure/postgres"
	handlers "github.com/alterlapsus/auth-api/internal/interface/http"
	"github.com/alterlapsus/auth-api/internal/router/modules"
	"github.com/alterlapsus/auth-api/pkg/validation"
)

// BuildAuthService wires repositories and the mail publisher into the
// application service from the container singletons.
func BuildAuthService() *application.Service {
	cfg := container.GetConfig()
	svc := application.NewService(
		pginfra.NewUserRepository(container.GetPGPool()),
		pginfra.NewRoleRepository(container.GetPGPool()),
		container.GetLogger(),
	)
	svc.Pub = container.GetRabbitPub()
	svc.AppName = cfg.AppName
	svc.MailEnabled = cfg.MailSendEnabled
	return svc
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	handler := handlers.NewAuthHandler(
		BuildAuthService(),
		validation.New(),
		container.GetLogger(),
		container.GetConfig(),
	)
	r.Add(modules.NewAuthModule(handler))
}
