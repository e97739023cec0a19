package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/auth"
	"github.com/jhoicas/capacita-api/internal/application/certificate"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
	infracache "github.com/jhoicas/capacita-api/internal/infrastructure/cache"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/capacita-api/internal/infrastructure/pdf"
	"github.com/jhoicas/capacita-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/capacita-api/internal/interfaces/http"
	"github.com/jhoicas/capacita-api/pkg/cache"
	"github.com/jhoicas/capacita-api/pkg/config"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

// storage repositorios del driver elegido más lo que hay que cerrar al salir.
type storage struct {
	coupons       repository.CouponRepository
	redemptions   repository.RedemptionRepository
	profiles      repository.PermissionProfileRepository
	internalUsers repository.InternalUserRepository
	users         repository.UserRepository
	tx            promotion.RedemptionTxRunner
	db            httpRouter.Pinger
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	healthChecks := map[string]httpRouter.Pinger{}
	if st.db != nil {
		healthChecks["database"] = st.db
	}

	profiles := st.profiles
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// Sin caché el servicio funciona igual, solo lee perfiles de la base.
			log.Warn().Err(err).Msg("redis no disponible, caché de perfiles deshabilitado")
		} else {
			defer rc.Close()
			profiles = infracache.NewProfileRepository(st.profiles, rc, cfg.Redis.ProfileTTL, log)
			healthChecks["cache"] = rc
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.ProfileTTL).Msg("caché de perfiles activo")
		}
	}

	resolver := access.NewResolver(profiles)
	authUC := auth.NewAuthUseCase(st.users, resolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	couponEngine := promotion.NewCouponEngine(st.coupons, st.tx, log).WithLocation(cfg.App.Location)
	couponAdminUC := promotion.NewCouponAdminUseCase(st.coupons, st.redemptions)
	profileUC := access.NewProfileUseCase(profiles, st.internalUsers)
	internalUserUC := access.NewInternalUserUseCase(st.internalUsers, profiles)
	certificateUC := certificate.NewUseCase(
		infrapdf.NewMarotoCertificateGenerator(),
		cfg.Certificate.VerifyBaseURL, cfg.Certificate.IssuerName, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Capacita API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CouponEngine:    couponEngine,
		CouponAdminUC:   couponAdminUC,
		Resolver:        resolver,
		ProfileUC:       profileUC,
		InternalUserUC:  internalUserUC,
		CertificateUC:   certificateUC,
		JWTSecret:       cfg.JWT.Secret,
		CouponRateLimit: cfg.HTTP.CouponRatePerMinute,
		HealthChecks:    healthChecks,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado con error")
		st.close()
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// openStorage abre el driver configurado. En postgres aplica migraciones si DB_AUTO_MIGRATE.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			coupons:       s.Coupons(),
			redemptions:   s.Redemptions(),
			profiles:      s.Profiles(),
			internalUsers: s.InternalUsers(),
			users:         s.Users(),
			tx:            s,
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		coupons:       postgres.NewCouponRepository(pool),
		redemptions:   postgres.NewRedemptionRepository(pool),
		profiles:      postgres.NewProfileRepository(pool),
		internalUsers: postgres.NewInternalUserRepository(pool),
		users:         postgres.NewUserRepository(pool),
		tx:            postgres.NewTxRunner(pool),
		db:            pool,
		close:         pool.Close,
	}, nil
}
