package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/auth"
	"github.com/jhoicas/capacita-api/internal/application/certificate"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CouponEngine    *promotion.CouponEngine
	CouponAdminUC   *promotion.CouponAdminUseCase
	Resolver        *access.Resolver
	ProfileUC       *access.ProfileUseCase
	InternalUserUC  *access.InternalUserUseCase
	CertificateUC   *certificate.UseCase
	JWTSecret       string
	CouponRateLimit int // peticiones por minuto y usuario/IP en validate/apply; 0 = sin límite
	HealthChecks    map[string]Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.HealthChecks))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	need := func(p permission.Permission) fiber.Handler { return RequirePermission(p, deps.Resolver) }

	// Coupons: validate/apply para cualquier usuario autenticado, con límite de tasa
	coupons := protected.Group("/coupons")
	couponHandler := NewCouponHandler(deps.CouponEngine, deps.CouponAdminUC, deps.Resolver)
	throttle := couponLimiter(deps.CouponRateLimit)
	coupons.Post("/validate", throttle, couponHandler.Validate)
	coupons.Post("/apply", throttle, couponHandler.Apply)
	coupons.Get("/company/:companyId", couponHandler.CompanyCoupon)

	// Administración: el permiso va por ruta para no alcanzar a validate/apply.
	manageCoupons := need(permission.ManageCoupons)
	coupons.Get("/", manageCoupons, couponHandler.List)
	coupons.Post("/", manageCoupons, couponHandler.Create)
	coupons.Get("/:id", manageCoupons, couponHandler.GetByID)
	coupons.Put("/:id", manageCoupons, couponHandler.Update)
	coupons.Delete("/:id", manageCoupons, couponHandler.Delete)
	coupons.Get("/:id/redemptions", manageCoupons, couponHandler.Redemptions)

	// Permission profiles
	profiles := protected.Group("/permission-profiles", need(permission.ManagePermissions))
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profiles.Get("/", profileHandler.List)
	profiles.Post("/", profileHandler.Create)
	profiles.Get("/:id", profileHandler.GetByID)
	profiles.Put("/:id", profileHandler.Update)
	profiles.Delete("/:id", profileHandler.Delete)

	// Permissions del usuario autenticado
	perms := protected.Group("/permissions")
	permissionHandler := NewPermissionHandler(deps.Resolver)
	perms.Get("/", permissionHandler.Catalog)
	perms.Get("/check", permissionHandler.Check)
	perms.Get("/me", permissionHandler.Mine)

	// Internal users (de la empresa del token)
	internalUsers := protected.Group("/internal-users", need(permission.ManageUsers))
	internalUserHandler := NewInternalUserHandler(deps.InternalUserUC)
	internalUsers.Get("/", internalUserHandler.List)
	internalUsers.Post("/", internalUserHandler.Create)
	internalUsers.Get("/:id", internalUserHandler.GetByID)
	internalUsers.Put("/:id", internalUserHandler.Update)
	internalUsers.Delete("/:id", internalUserHandler.Delete)
	internalUsers.Get("/:id/branches", internalUserHandler.Branches)

	// Certificates
	certificates := protected.Group("/certificates", need(permission.IssueCertificates))
	certificateHandler := NewCertificateHandler(deps.CertificateUC)
	certificates.Post("/", certificateHandler.Generate)
}

func couponLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id := GetUserID(c); id != "" {
				return "user:" + id
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "muitas solicitações de cupom, tente novamente em um minuto",
			})
		},
	})
}
