// seed carga perfiles, usuarios y cupones iniciales desde un archivo YAML.
//
// Uso: go run ./cmd/seed [ruta/seed.yaml]
// Por defecto lee seed.yaml del directorio actual. Usa la misma configuración que la API
// (DATABASE_URL o DB_*) y aplica las migraciones pendientes antes de cargar.
package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/capacita-api/pkg/config"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

func main() {
	path := "seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := loadSeedFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("archivo de seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	profiles := postgres.NewProfileRepository(pool)
	internalUsers := postgres.NewInternalUserRepository(pool)
	coupons := postgres.NewCouponRepository(pool)
	s := &seeder{
		users:         postgres.NewUserRepository(pool),
		profileUC:     access.NewProfileUseCase(profiles, internalUsers),
		internalUC:    access.NewInternalUserUseCase(internalUsers, profiles),
		couponAdminUC: promotion.NewCouponAdminUseCase(coupons, postgres.NewRedemptionRepository(pool)),
		log:           log,
		bcryptCost:    bcrypt.DefaultCost,
	}

	sum, err := s.run(ctx, f)
	if err != nil {
		log.Fatal().Err(err).Int("created", sum.Created).Msg("seed incompleto")
	}
	log.Info().Int("created", sum.Created).Int("skipped", sum.Skipped).Str("file", path).Msg("seed aplicado")
}
