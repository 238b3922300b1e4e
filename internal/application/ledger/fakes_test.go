package ledger_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore implementa todos los puertos de repositorio sobre mapas, y
// fakeTxRunner implementa ledger.TxRunner con snapshot/restore para que un
// error dentro de la transacción deshaga todo lo escrito (mismo contrato que
// el TxRunner de PostgreSQL). txMu serializa las transacciones, modelando el
// bloqueo de fila de GetForUpdate.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu            sync.Mutex
	txMu          sync.Mutex
	shops         map[string]*entity.Shop
	resources     map[string]*entity.Resource
	balances      map[string]*entity.Balance // clave shopID|resourceID
	audit         []*entity.AuditEntry
	alerts        map[string]*entity.Alert
	notifications []*entity.Notification
	seq           int64
}

func newMemStore() *memStore {
	return &memStore{
		shops:     map[string]*entity.Shop{},
		resources: map[string]*entity.Resource{},
		balances:  map[string]*entity.Balance{},
		alerts:    map[string]*entity.Alert{},
	}
}

func balanceKey(shopID, resourceID string) string { return shopID + "|" + resourceID }

func (s *memStore) addShop(shop *entity.Shop)        { s.shops[shop.ID] = shop }
func (s *memStore) addResource(res *entity.Resource) { s.resources[res.ID] = res }
func (s *memStore) addAlert(a *entity.Alert)         { s.alerts[a.ID] = a }
func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Shops:         &fakeShopRepo{s},
		Resources:     &fakeResourceRepo{s},
		Balances:      &fakeBalanceRepo{s},
		Audit:         &fakeAuditRepo{s},
		Alerts:        &fakeAlertRepo{s},
		Notifications: &fakeNotificationRepo{s},
	}
}

type storeSnapshot struct {
	shops         map[string]*entity.Shop
	resources     map[string]*entity.Resource
	balances      map[string]*entity.Balance
	audit         []*entity.AuditEntry
	alerts        map[string]*entity.Alert
	notifications []*entity.Notification
	seq           int64
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		shops:         map[string]*entity.Shop{},
		resources:     map[string]*entity.Resource{},
		balances:      map[string]*entity.Balance{},
		alerts:        map[string]*entity.Alert{},
		audit:         append([]*entity.AuditEntry(nil), s.audit...),
		notifications: append([]*entity.Notification(nil), s.notifications...),
		seq:           s.seq,
	}
	for k, v := range s.shops {
		c := *v
		snap.shops[k] = &c
	}
	for k, v := range s.resources {
		c := *v
		snap.resources[k] = &c
	}
	for k, v := range s.balances {
		c := *v
		snap.balances[k] = &c
	}
	for k, v := range s.alerts {
		c := *v
		snap.alerts[k] = &c
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops = snap.shops
	s.resources = snap.resources
	s.balances = snap.balances
	s.audit = snap.audit
	s.alerts = snap.alerts
	s.notifications = snap.notifications
	s.seq = snap.seq
}

// fakeTxRunner implementa ledger.TxRunner. failures se consume una por
// llamada antes de ejecutar fn, para inyectar fallos de serialización.
type fakeTxRunner struct {
	s        *memStore
	mu       sync.Mutex
	failures []error
	runs     int
}

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	tx.s.txMu.Lock()
	defer tx.s.txMu.Unlock()

	tx.mu.Lock()
	tx.runs++
	var injected error
	if len(tx.failures) > 0 {
		injected = tx.failures[0]
		tx.failures = tx.failures[1:]
	}
	tx.mu.Unlock()
	if injected != nil {
		return injected
	}

	snap := tx.s.snapshot()
	if err := fn(tx.s.repos()); err != nil {
		tx.s.restore(snap)
		return err
	}
	return nil
}

// ── ShopRepository ────────────────────────────────────────────────────────────

type fakeShopRepo struct{ s *memStore }

func (r *fakeShopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.shops[id]
	if !ok {
		return nil, nil
	}
	c := *shop
	return &c, nil
}

func (r *fakeShopRepo) List(_ context.Context) ([]*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Shop, 0, len(r.s.shops))
	for _, shop := range r.s.shops {
		c := *shop
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── ResourceRepository ────────────────────────────────────────────────────────

type fakeResourceRepo struct{ s *memStore }

func (r *fakeResourceRepo) Create(_ context.Context, res *entity.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *res
	r.s.resources[res.ID] = &c
	return nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id string) (*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resources[id]
	if !ok {
		return nil, nil
	}
	c := *res
	return &c, nil
}

func (r *fakeResourceRepo) GetByName(_ context.Context, name string) (*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.resources {
		if res.Name == name {
			c := *res
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeResourceRepo) Update(_ context.Context, res *entity.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resources[res.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *res
	r.s.resources[res.ID] = &c
	return nil
}

func (r *fakeResourceRepo) List(_ context.Context, filter repository.ResourceFilter, limit, offset int) ([]*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Resource, 0, len(r.s.resources))
	for _, res := range r.s.resources {
		if filter.Category != "" && res.Category != filter.Category {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(res.Name), strings.ToLower(filter.Name)) {
			continue
		}
		c := *res
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *fakeResourceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.resources, id)
	for k := range r.s.balances {
		if strings.HasSuffix(k, "|"+id) {
			delete(r.s.balances, k)
		}
	}
	return nil
}

func (r *fakeResourceRepo) HasActivity(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.balances {
		if b.ResourceID == id && b.Quantity != 0 {
			return true, nil
		}
	}
	for _, e := range r.s.audit {
		if e.ResourceID == id {
			return true, nil
		}
	}
	return false, nil
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

type fakeBalanceRepo struct{ s *memStore }

func (r *fakeBalanceRepo) ensure(shopID, resourceID string) *entity.Balance {
	k := balanceKey(shopID, resourceID)
	b, ok := r.s.balances[k]
	if !ok {
		b = &entity.Balance{ShopID: shopID, ResourceID: resourceID}
		r.s.balances[k] = b
	}
	return b
}

func (r *fakeBalanceRepo) GetOrCreate(_ context.Context, shopID, resourceID string) (*entity.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *r.ensure(shopID, resourceID)
	return &c, nil
}

func (r *fakeBalanceRepo) GetForUpdate(_ context.Context, shopID, resourceID string) (*entity.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *r.ensure(shopID, resourceID)
	return &c, nil
}

func (r *fakeBalanceRepo) ApplyDelta(_ context.Context, shopID, resourceID string, delta int64, actor string, now time.Time) (*entity.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := r.ensure(shopID, resourceID)
	if b.Quantity+delta < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	b.Quantity += delta
	b.LastUpdated = now
	b.LastUpdatedBy = actor
	c := *b
	return &c, nil
}

func (r *fakeBalanceRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Balance, 0)
	for _, b := range r.s.balances {
		if b.ShopID == shopID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return paginate(out, limit, offset), nil
}

func (r *fakeBalanceRepo) ListAll(_ context.Context, limit, offset int) ([]*entity.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Balance, 0, len(r.s.balances))
	for _, b := range r.s.balances {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return balanceKey(out[i].ShopID, out[i].ResourceID) < balanceKey(out[j].ShopID, out[j].ResourceID)
	})
	return paginate(out, limit, offset), nil
}

// ── AuditRepository ───────────────────────────────────────────────────────────

type fakeAuditRepo struct{ s *memStore }

func (r *fakeAuditRepo) Append(_ context.Context, entry *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	c := *entry
	c.Seq = r.s.seq
	entry.Seq = r.s.seq
	r.s.audit = append(r.s.audit, &c)
	return nil
}

func (r *fakeAuditRepo) ListByResourceShop(_ context.Context, resourceID, shopID string, limit, offset int) ([]*entity.AuditEntry, error) {
	entries, err := r.ListChronological(nil, resourceID, shopID)
	if err != nil {
		return nil, err
	}
	// más reciente primero
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return paginate(entries, limit, offset), nil
}

func (r *fakeAuditRepo) ListChronological(_ context.Context, resourceID, shopID string) ([]*entity.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.AuditEntry, 0)
	for _, e := range r.s.audit {
		if e.ResourceID == resourceID && e.ShopID == shopID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// ── AlertRepository ───────────────────────────────────────────────────────────

type fakeAlertRepo struct{ s *memStore }

func (r *fakeAlertRepo) Create(_ context.Context, alert *entity.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// índice único parcial: a lo sumo una activa por (tienda, recurso, tipo)
	for _, a := range r.s.alerts {
		if a.IsActive && a.ShopID == alert.ShopID && a.ResourceID == alert.ResourceID && a.AlertType == alert.AlertType {
			return domain.ErrConcurrency
		}
	}
	c := *alert
	r.s.alerts[alert.ID] = &c
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *fakeAlertRepo) GetActiveForUpdate(_ context.Context, shopID, resourceID, alertType string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.IsActive && a.ShopID == shopID && a.ResourceID == resourceID && a.AlertType == alertType {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeAlertRepo) Resolve(_ context.Context, id string, resolvedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok || !a.IsActive {
		return domain.ErrConflict
	}
	a.IsActive = false
	t := resolvedAt
	a.ResolvedAt = &t
	return nil
}

func (r *fakeAlertRepo) ListActive(_ context.Context, shopID string, limit, offset int) ([]*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Alert, 0)
	for _, a := range r.s.alerts {
		if !a.IsActive {
			continue
		}
		if shopID != "" && a.ShopID != shopID {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ── NotificationRepository ────────────────────────────────────────────────────

type fakeNotificationRepo struct{ s *memStore }

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *n
	r.s.notifications = append(r.s.notifications, &c)
	return nil
}

func (r *fakeNotificationRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Notification, 0)
	for _, n := range r.s.notifications {
		if n.ShopID == shopID {
			c := *n
			out = append(out, &c)
		}
	}
	// más reciente primero
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, shopID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.ShopID == shopID {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
