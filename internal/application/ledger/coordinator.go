package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// DefaultMaxRetries reintentos ante domain.ErrConcurrency antes de rendirse.
const DefaultMaxRetries = 3

// UpdateCoordinator es el único punto de entrada legal para mutar balances.
// Cada cambio aceptado ejecuta, en una sola transacción: bloqueo de la fila
// de balance (SELECT FOR UPDATE) → aplicación del delta → entrada de
// auditoría → evaluación de alertas. Los conflictos de serialización se
// reintentan con backoff exponencial un número acotado de veces.
type UpdateCoordinator struct {
	txRunner     TxRunner
	shopRepo     repository.ShopRepository
	resourceRepo repository.ResourceRepository
	balanceRepo  repository.BalanceRepository
	auditRepo    repository.AuditRepository
	maxRetries   int
}

// NewUpdateCoordinator construye el coordinador. maxRetries <= 0 usa el default.
func NewUpdateCoordinator(
	txRunner TxRunner,
	shopRepo repository.ShopRepository,
	resourceRepo repository.ResourceRepository,
	balanceRepo repository.BalanceRepository,
	auditRepo repository.AuditRepository,
	maxRetries int,
) *UpdateCoordinator {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &UpdateCoordinator{
		txRunner:     txRunner,
		shopRepo:     shopRepo,
		resourceRepo: resourceRepo,
		balanceRepo:  balanceRepo,
		auditRepo:    auditRepo,
		maxRetries:   maxRetries,
	}
}

// UpdateInput entrada para un cambio de balance. NewQuantity es la cantidad
// absoluta resultante; el coordinador calcula el delta contra el balance vivo.
type UpdateInput struct {
	ShopID      string
	ResourceID  string
	NewQuantity int64
	Reason      string
	Actor       string
}

// UpdateResult resultado de un cambio aplicado.
type UpdateResult struct {
	Balance     *entity.Balance
	Entry       *entity.AuditEntry
	AlertChange string // "", "activated" o "resolved"
	Alert       *entity.Alert
}

// BatchOutcome reporte de éxito de un lote: un resultado por petición, en el
// orden de entrada.
type BatchOutcome struct {
	Results []UpdateResult
}

// Cambios de estado de alerta reportados en UpdateResult.AlertChange.
const (
	AlertChangeActivated = "activated"
	AlertChangeResolved  = "resolved"
)

func validateInput(in UpdateInput) error {
	if in.ShopID == "" {
		return domain.NewValidationError("shop_id", "es requerido")
	}
	if in.ResourceID == "" {
		return domain.NewValidationError("resource_id", "es requerido")
	}
	if in.NewQuantity < 0 {
		return domain.NewValidationError("new_quantity", "no puede ser negativa")
	}
	if in.Actor == "" {
		return domain.NewValidationError("actor", "es requerido")
	}
	return nil
}

// ApplySingle valida la entrada, y en una transacción aplica el cambio,
// registra la entrada de auditoría y reevalúa la alerta del par.
// Falla con ErrInvalidInput, ErrNotFound o ErrInvalidQuantity; ante cualquier
// fallo la transacción se revierte completa.
func (uc *UpdateCoordinator) ApplySingle(ctx context.Context, in UpdateInput) (*UpdateResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := uc.getShop(ctx, in.ShopID); err != nil {
		return nil, err
	}
	resource, err := uc.getResource(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}

	var result *UpdateResult
	err = uc.runWithRetry(ctx, func(r repository.Repos) error {
		res, err := applyChange(ctx, r, resource, in, time.Now())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyBatch procesa el lote como una unidad atómica: si cualquier petición
// falla, el lote entero se revierte y no queda aplicado ningún cambio.
// Devuelve un resultado por petición en el orden de entrada, o un
// domain.BatchError con el índice (base 0) de la primera petición fallida.
func (uc *UpdateCoordinator) ApplyBatch(ctx context.Context, shopID string, updates []UpdateInput, actor string) (*BatchOutcome, error) {
	if len(updates) == 0 {
		return nil, domain.NewValidationError("updates", "el lote está vacío")
	}
	if _, err := uc.getShop(ctx, shopID); err != nil {
		return nil, err
	}

	// Validación y resolución de recursos antes de abrir la transacción:
	// el primer fallo rechaza el lote sin tocar el almacenamiento.
	resources := make([]*entity.Resource, len(updates))
	for i := range updates {
		updates[i].ShopID = shopID
		updates[i].Actor = actor
		if err := validateInput(updates[i]); err != nil {
			return nil, &domain.BatchError{Index: i, Err: err}
		}
		resource, err := uc.getResource(ctx, updates[i].ResourceID)
		if err != nil {
			return nil, &domain.BatchError{Index: i, Err: err}
		}
		resources[i] = resource
	}

	var outcome *BatchOutcome
	err := uc.runWithRetry(ctx, func(r repository.Repos) error {
		results := make([]UpdateResult, 0, len(updates))
		for i, in := range updates {
			res, err := applyChange(ctx, r, resources[i], in, time.Now())
			if err != nil {
				// Los fallos de concurrencia se reintentan a nivel de lote,
				// no se reportan como índice fallido.
				if errors.Is(err, domain.ErrConcurrency) {
					return err
				}
				return &domain.BatchError{Index: i, Err: err}
			}
			results = append(results, *res)
		}
		outcome = &BatchOutcome{Results: results}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// applyChange ejecuta un cambio dentro de la transacción: bloquea el balance,
// aplica el delta, apendiza la auditoría y evalúa la alerta del par.
func applyChange(ctx context.Context, r repository.Repos, resource *entity.Resource, in UpdateInput, now time.Time) (*UpdateResult, error) {
	// Bloquea la fila de balance: punto de serialización del par (tienda, recurso)
	current, err := r.Balances.GetForUpdate(ctx, in.ShopID, in.ResourceID)
	if err != nil {
		return nil, err
	}
	delta := in.NewQuantity - current.Quantity

	balance, err := r.Balances.ApplyDelta(ctx, in.ShopID, in.ResourceID, delta, in.Actor, now)
	if err != nil {
		return nil, err
	}

	entry := &entity.AuditEntry{
		ID:               uuid.New().String(),
		ShopID:           in.ShopID,
		ResourceID:       in.ResourceID,
		PreviousQuantity: current.Quantity,
		NewQuantity:      balance.Quantity,
		Delta:            delta,
		ChangeType:       entity.ChangeTypeForDelta(delta),
		Reason:           in.Reason,
		UpdatedBy:        in.Actor,
		UpdatedAt:        now,
	}
	if err := r.Audit.Append(ctx, entry); err != nil {
		return nil, err
	}

	alertChange, alert, err := evaluateAlert(ctx, r, resource, in.ShopID, balance.Quantity, now)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		Balance:     balance,
		Entry:       entry,
		AlertChange: alertChange,
		Alert:       alert,
	}, nil
}

// GetBalance devuelve el balance actual, creando la fila en cero la primera
// vez que la tienda consulta el recurso.
func (uc *UpdateCoordinator) GetBalance(ctx context.Context, shopID, resourceID string) (*entity.Balance, error) {
	if _, err := uc.getShop(ctx, shopID); err != nil {
		return nil, err
	}
	if _, err := uc.getResource(ctx, resourceID); err != nil {
		return nil, err
	}
	return uc.balanceRepo.GetOrCreate(ctx, shopID, resourceID)
}

// ListBalances lista los balances de una tienda (solo pares ya materializados).
func (uc *UpdateCoordinator) ListBalances(ctx context.Context, shopID string, limit, offset int) ([]*entity.Balance, error) {
	if _, err := uc.getShop(ctx, shopID); err != nil {
		return nil, err
	}
	return uc.balanceRepo.ListByShop(ctx, shopID, limit, offset)
}

// ListHistory lista el historial de un (recurso, tienda), más reciente primero.
func (uc *UpdateCoordinator) ListHistory(ctx context.Context, shopID, resourceID string, limit, offset int) ([]*entity.AuditEntry, error) {
	if _, err := uc.getResource(ctx, resourceID); err != nil {
		return nil, err
	}
	return uc.auditRepo.ListByResourceShop(ctx, resourceID, shopID, limit, offset)
}

func (uc *UpdateCoordinator) getShop(ctx context.Context, shopID string) (*entity.Shop, error) {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

func (uc *UpdateCoordinator) getResource(ctx context.Context, resourceID string) (*entity.Resource, error) {
	resource, err := uc.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, domain.ErrNotFound
	}
	return resource, nil
}

// runWithRetry ejecuta fn en una transacción, reintentando con backoff
// exponencial solo ante domain.ErrConcurrency (serialización o deadlock).
// Cualquier otro error es permanente y se propaga tal cual.
func (uc *UpdateCoordinator) runWithRetry(ctx context.Context, fn func(r repository.Repos) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond

	return backoff.Retry(func() error {
		err := uc.txRunner.Run(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConcurrency) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(uc.maxRetries)), ctx))
}
