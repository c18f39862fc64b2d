package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargotrack/identity-service/internal/api/handler"
	"github.com/cargotrack/identity-service/internal/api/middleware"
	"github.com/cargotrack/identity-service/internal/core/domain"
	"github.com/cargotrack/identity-service/internal/core/ports"
	"github.com/cargotrack/identity-service/internal/core/service"
	"github.com/cargotrack/identity-service/internal/infrastructure/http/handlers"
)

// Services groups the core services the router wires into handlers.
type Services struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Roles       ports.RoleService
	Permissions ports.PermissionService
	Resolver    ports.PermissionResolver
	Issuer      *service.TokenIssuer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svcs Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(svcs.Auth)
	userHandler := handler.NewUserHandler(svcs.Users)
	roleHandler := handler.NewRoleHandler(svcs.Roles)
	permissionHandler := handler.NewPermissionHandler(svcs.Permissions)

	authMW := middleware.Auth(svcs.Issuer)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password", authHandler.ChangePassword, authMW)

	// --- User administration ---
	users := e.Group("/users", authMW, middleware.RequirePermission(svcs.Resolver, domain.PermUsersManage))
	users.POST("", userHandler.Register)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.PUT("/:id/status", userHandler.UpdateStatus)
	users.PUT("/:id/roles", userHandler.UpdateRoles)

	// --- Role administration ---
	roles := e.Group("/roles", authMW, middleware.RequirePermission(svcs.Resolver, domain.PermRolesManage))
	roles.POST("", roleHandler.Create)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)
	roles.PUT("/:id/permissions", roleHandler.UpdatePermissions)
	roles.POST("/:id/permissions", roleHandler.AddPermission)
	roles.DELETE("/:id/permissions/:permissionId", roleHandler.RemovePermission)

	// --- Permission administration ---
	permissions := e.Group("/permissions", authMW, middleware.RequirePermission(svcs.Resolver, domain.PermPermissionsManage))
	permissions.POST("", permissionHandler.Create)
	permissions.GET("", permissionHandler.List)
	permissions.GET("/categories", permissionHandler.Categories)
	permissions.GET("/:id", permissionHandler.Get)
	permissions.PUT("/:id", permissionHandler.Update)
	permissions.DELETE("/:id", permissionHandler.Delete)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
