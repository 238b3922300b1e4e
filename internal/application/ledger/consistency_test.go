package ledger_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidmora/shopledger-api/internal/application/ledger"
)

// Con balances que coinciden con el replay de su historial, el chequeo no
// reporta nada.
func TestConsistencyChecker_SinDesajustes(t *testing.T) {
	uc, s, _ := buildCoordinator(t)
	apply(t, uc, 10)
	apply(t, uc, 4)

	repos := s.repos()
	checker := ledger.NewConsistencyChecker(repos.Balances, repos.Audit, zerolog.Nop())
	mismatches, err := checker.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, mismatches)
}

// Un balance manipulado por fuera del coordinador se detecta como proyección
// desajustada de su cadena.
func TestConsistencyChecker_DetectaBalanceManipulado(t *testing.T) {
	uc, s, _ := buildCoordinator(t)
	apply(t, uc, 10)

	s.mu.Lock()
	s.balances[balanceKey(testShopID, testResourceID)].Quantity = 99
	s.mu.Unlock()

	repos := s.repos()
	checker := ledger.NewConsistencyChecker(repos.Balances, repos.Audit, zerolog.Nop())
	mismatches, err := checker.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mismatches)
}

// Una cadena rota (entrada intermedia alterada) también cuenta como desajuste.
func TestConsistencyChecker_DetectaCadenaRota(t *testing.T) {
	uc, s, _ := buildCoordinator(t)
	apply(t, uc, 10)
	apply(t, uc, 4)

	s.mu.Lock()
	s.audit[1].PreviousQuantity = 7
	s.mu.Unlock()

	repos := s.repos()
	checker := ledger.NewConsistencyChecker(repos.Balances, repos.Audit, zerolog.Nop())
	mismatches, err := checker.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mismatches)
}
