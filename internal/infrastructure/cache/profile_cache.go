// Package cache decora repositorios con un caché de lectura.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
	pkgcache "github.com/jhoicas/capacita-api/pkg/cache"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

const profileKeyPrefix = "perm_profile:"

// Store operaciones mínimas del caché (implementado por pkg/cache.RedisCache).
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProfileRepository lee perfiles de permisos a través del caché.
// Las escrituras van al repositorio y luego invalidan la clave.
type ProfileRepository struct {
	next  repository.PermissionProfileRepository
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

var _ repository.PermissionProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository envuelve next con el caché.
func NewProfileRepository(next repository.PermissionProfileRepository, store Store, ttl time.Duration, log *logger.Logger) *ProfileRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileRepository{next: next, store: store, ttl: ttl, log: log.Component("profile_cache")}
}

func profileKey(id string) string { return profileKeyPrefix + id }

// List no se cachea: solo lo usa la administración.
func (r *ProfileRepository) List(ctx context.Context) ([]*entity.PermissionProfile, error) {
	return r.next.List(ctx)
}

// GetByID consulta el caché y, en caso de fallo, el repositorio.
// Un error del caché no es fatal: se registra y se lee del repositorio.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.PermissionProfile, error) {
	var cached entity.PermissionProfile
	err := r.store.Get(ctx, profileKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, pkgcache.ErrMiss) {
		r.log.Warn().Err(err).Str("profile_id", id).Msg("caché de perfiles no disponible")
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	if err := r.store.Set(ctx, profileKey(id), p, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("profile_id", id).Msg("no se pudo cachear el perfil")
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entity.PermissionProfile) error {
	return r.next.Create(ctx, profile)
}

func (r *ProfileRepository) Update(ctx context.Context, profile *entity.PermissionProfile) error {
	if err := r.next.Update(ctx, profile); err != nil {
		return err
	}
	r.invalidate(ctx, profile.ID)
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ProfileRepository) invalidate(ctx context.Context, id string) {
	if err := r.store.Delete(ctx, profileKey(id)); err != nil {
		r.log.Error().Err(err).Str("profile_id", id).Msg("no se pudo invalidar el perfil en caché")
	}
}
