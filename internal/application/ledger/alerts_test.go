package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/domain"
	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// buildAlertUC monta el caso de uso de alertas sobre un store con una alerta
// activa ya sembrada para (shop-1, res-coffee).
func buildAlertUC(t *testing.T) (*ledger.AlertUseCase, *memStore, *entity.Alert) {
	t.Helper()
	uc, s, _ := buildCoordinator(t)
	result := apply(t, uc, 4) // crea la alerta por cruce de umbral
	require.Equal(t, ledger.AlertChangeActivated, result.AlertChange)

	tx := &fakeTxRunner{s: s}
	alertUC := ledger.NewAlertUseCase(tx, s.repos().Alerts)
	return alertUC, s, result.Alert
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución manual
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_AlertaActiva(t *testing.T) {
	uc, s, alert := buildAlertUC(t)
	notificationsBefore := len(s.notifications)

	resolved, err := uc.Resolve(context.Background(), alert.ID, "user-2")
	require.NoError(t, err)
	assert.False(t, resolved.IsActive)
	require.NotNil(t, resolved.ResolvedAt)

	// la resolución manual también deja notificación
	assert.Len(t, s.notifications, notificationsBefore+1)

	active, err := uc.ListActive(context.Background(), testShopID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// Resolver dos veces la misma alerta es un conflicto, no un no-op: la segunda
// llamada encuentra la alerta ya inactiva.
func TestResolve_YaResuelta(t *testing.T) {
	uc, _, alert := buildAlertUC(t)

	_, err := uc.Resolve(context.Background(), alert.ID, "user-2")
	require.NoError(t, err)

	_, err = uc.Resolve(context.Background(), alert.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResolve_Inexistente(t *testing.T) {
	uc, _, _ := buildAlertUC(t)
	_, err := uc.Resolve(context.Background(), "no-existe", "user-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_SinID(t *testing.T) {
	uc, _, _ := buildAlertUC(t)
	_, err := uc.Resolve(context.Background(), "", "user-2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

// shopID vacío lista las alertas activas de todas las tiendas; con shopID
// solo las de esa tienda.
func TestListActive_FiltroPorTienda(t *testing.T) {
	uc, s, _ := buildAlertUC(t)
	s.addAlert(&entity.Alert{
		ID:         "alert-otra-tienda",
		ShopID:     "shop-2",
		ResourceID: testResourceID,
		AlertType:  entity.AlertTypeLowStock,
		IsActive:   true,
	})

	all, err := uc.ListActive(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := uc.ListActive(context.Background(), testShopID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, testShopID, mine[0].ShopID)
}
