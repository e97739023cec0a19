package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/infrastructure/cache"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
	pkgcache "github.com/jhoicas/capacita-api/pkg/cache"
)

// fakeStore guarda JSON en memoria, igual que Redis.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	fail bool
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (s *fakeStore) Get(_ context.Context, key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.fail {
		return errors.New("redis caído")
	}
	b, ok := s.data[key]
	if !ok {
		return pkgcache.ErrMiss
	}
	return json.Unmarshal(b, dest)
}

func (s *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("redis caído")
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = b
	return nil
}

func (s *fakeStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func TestProfileRepository_LecturaEInvalidacion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	fake := newFakeStore()
	repo := cache.NewProfileRepository(store.Profiles(), fake, time.Minute, nil)

	require.NoError(t, repo.Create(ctx, &entity.PermissionProfile{
		ID: "p-1", Name: "Cupons", Permissions: []string{"manage:coupons"},
	}))
	assert.False(t, fake.has("perm_profile:p-1"))

	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"manage:coupons"}, p.Permissions)
	assert.True(t, fake.has("perm_profile:p-1"))

	// Un cambio directo en el repositorio no se ve hasta invalidar.
	require.NoError(t, store.Profiles().Update(ctx, &entity.PermissionProfile{ID: "p-1", Name: "Cupons", Permissions: []string{}}))
	p, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"manage:coupons"}, p.Permissions)

	require.NoError(t, repo.Update(ctx, &entity.PermissionProfile{ID: "p-1", Name: "Cupons", Permissions: []string{"view:reports"}}))
	assert.False(t, fake.has("perm_profile:p-1"))
	p, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"view:reports"}, p.Permissions)

	require.NoError(t, repo.Delete(ctx, "p-1"))
	assert.False(t, fake.has("perm_profile:p-1"))
	p, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfileRepository_InexistenteNoSeCachea(t *testing.T) {
	fake := newFakeStore()
	repo := cache.NewProfileRepository(memory.NewStore().Profiles(), fake, time.Minute, nil)

	p, err := repo.GetByID(context.Background(), "nadie")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, fake.has("perm_profile:nadie"))
}

func TestProfileRepository_CacheCaidoLeeDelRepositorio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Profiles().Create(ctx, &entity.PermissionProfile{ID: "p-1", Name: "Rh"}))
	fake := newFakeStore()
	fake.fail = true
	repo := cache.NewProfileRepository(store.Profiles(), fake, time.Minute, nil)

	p, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Rh", p.Name)
}
