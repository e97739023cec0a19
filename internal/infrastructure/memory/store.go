// Package memory implementa los puertos de persistencia en memoria: cupones en un mapa por ID
// con índice secundario código → ID, perfiles, usuarios internos y cuentas.
// Se usa con STORAGE_DRIVER=memory (demos, desarrollo local) y en tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex // serializa RunRedemption
	coupons       map[string]*entity.Coupon
	codeIndex     map[string]string // código normalizado → ID
	redemptions   []*entity.CouponRedemption
	profiles      map[string]*entity.PermissionProfile
	internalUsers map[string]*entity.InternalUser
	users         map[string]*entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		coupons:       make(map[string]*entity.Coupon),
		codeIndex:     make(map[string]string),
		profiles:      make(map[string]*entity.PermissionProfile),
		internalUsers: make(map[string]*entity.InternalUser),
		users:         make(map[string]*entity.User),
	}
}

// Coupons repositorio de cupones sobre el almacén.
func (s *Store) Coupons() *CouponRepo { return &CouponRepo{s: s} }

// Redemptions repositorio de redenciones sobre el almacén.
func (s *Store) Redemptions() *RedemptionRepo { return &RedemptionRepo{s: s} }

// Profiles repositorio de perfiles de permisos.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

// InternalUsers repositorio de usuarios internos.
func (s *Store) InternalUsers() *InternalUserRepo { return &InternalUserRepo{s: s} }

// Users repositorio de cuentas de acceso.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RunRedemption ejecuta fn con repos que registran cómo deshacer cada escritura.
// Si fn falla se revierten en orden inverso, igual que un ROLLBACK.
func (s *Store) RunRedemption(ctx context.Context, fn func(
	coupons repository.CouponRepository,
	redemptions repository.RedemptionRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memTx{}
	err := fn(&txCouponRepo{CouponRepo: s.Coupons(), tx: tx}, &txRedemptionRepo{RedemptionRepo: s.Redemptions(), tx: tx})
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

type memTx struct {
	undo []func()
}

type txCouponRepo struct {
	*CouponRepo
	tx *memTx
}

func (r *txCouponRepo) IncrementUsage(ctx context.Context, id string) (bool, error) {
	ok, err := r.CouponRepo.IncrementUsage(ctx, id)
	if ok {
		r.tx.undo = append(r.tx.undo, func() {
			r.s.mu.Lock()
			defer r.s.mu.Unlock()
			if c, found := r.s.coupons[id]; found {
				c.UsedCount--
			}
		})
	}
	return ok, err
}

type txRedemptionRepo struct {
	*RedemptionRepo
	tx *memTx
}

func (r *txRedemptionRepo) Create(ctx context.Context, red *entity.CouponRedemption) error {
	if err := r.RedemptionRepo.Create(ctx, red); err != nil {
		return err
	}
	id := red.ID
	r.tx.undo = append(r.tx.undo, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		r.s.redemptions = slices.DeleteFunc(r.s.redemptions, func(x *entity.CouponRedemption) bool { return x.ID == id })
	})
	return nil
}
