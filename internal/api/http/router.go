package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/api/http/handlers"
	"github.com/spec-kit/exam-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Roles    *handlers.RolesHandler
	Tests    *handlers.TestsHandler
	Sessions *handlers.SessionsHandler
	Guard    *auth.Guard
}

// RegisterRoutes wires HTTP routes. Every protected route declares the
// permission names it requires; the guard enforces them with AND semantics.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := cfg.Guard

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/send-otp", cfg.Auth.SendOTP)
	authGroup.Post("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/forgot", cfg.Auth.Forgot)
	authGroup.Post("/new-password", cfg.Auth.NewPassword)
	authGroup.Post("/logout", guard.RequirePermissions(), cfg.Auth.Logout)

	api := app.Group("/api")
	api.Get("/me", guard.RequirePermissions(), cfg.Auth.Me)

	api.Get("/roles", guard.RequirePermissions("roles:read"), cfg.Roles.ListRoles)
	api.Get("/roles/:id", guard.RequirePermissions("roles:read"), cfg.Roles.GetRole)
	api.Post("/roles", guard.RequirePermissions("roles:write"), cfg.Roles.CreateRole)
	api.Put("/roles/:id", guard.RequirePermissions("roles:write"), cfg.Roles.UpdateRole)
	api.Delete("/roles/:id", guard.RequirePermissions("roles:write"), cfg.Roles.DeleteRole)
	api.Post("/roles/:id/permissions", guard.RequirePermissions("roles:write"), cfg.Roles.AssignPermission)
	api.Delete("/roles/:id/permissions/:permissionId", guard.RequirePermissions("roles:write"), cfg.Roles.RevokePermission)

	api.Get("/permissions", guard.RequirePermissions("roles:read"), cfg.Roles.ListPermissions)
	api.Post("/permissions", guard.RequirePermissions("roles:write"), cfg.Roles.CreatePermission)
	api.Delete("/permissions/:id", guard.RequirePermissions("roles:write"), cfg.Roles.DeletePermission)

	api.Get("/tests", guard.RequirePermissions("tests:read"), cfg.Tests.List)
	api.Get("/tests/:id", guard.RequirePermissions("tests:read"), cfg.Tests.Get)
	api.Post("/tests", guard.RequirePermissions("tests:write"), cfg.Tests.Create)
	api.Put("/tests/:id", guard.RequirePermissions("tests:write"), cfg.Tests.Update)
	api.Delete("/tests/:id", guard.RequirePermissions("tests:write"), cfg.Tests.Delete)

	api.Get("/tests/:id/questions", guard.RequirePermissions("questions:read"), cfg.Tests.ListQuestions)
	api.Post("/tests/:id/questions", guard.RequirePermissions("questions:write"), cfg.Tests.AddQuestion)
	api.Put("/questions/:id", guard.RequirePermissions("questions:write"), cfg.Tests.UpdateQuestion)
	api.Delete("/questions/:id", guard.RequirePermissions("questions:write"), cfg.Tests.DeleteQuestion)

	api.Get("/questions/:id/options", guard.RequirePermissions("options:read"), cfg.Tests.ListOptions)
	api.Post("/questions/:id/options", guard.RequirePermissions("options:write"), cfg.Tests.AddOption)
	api.Put("/options/:id", guard.RequirePermissions("options:write"), cfg.Tests.UpdateOption)
	api.Delete("/options/:id", guard.RequirePermissions("options:write"), cfg.Tests.DeleteOption)

	api.Get("/sessions", guard.RequirePermissions("sessions:read"), cfg.Sessions.List)
	api.Get("/sessions/:id", guard.RequirePermissions("sessions:read"), cfg.Sessions.Get)
	api.Post("/sessions", guard.RequirePermissions("sessions:start"), cfg.Sessions.Start)
	api.Post("/sessions/:id/answers", guard.RequirePermissions("sessions:submit"), cfg.Sessions.SubmitAnswer)
	api.Post("/sessions/:id/finish", guard.RequirePermissions("sessions:submit"), cfg.Sessions.Finish)
}
