// Package ledger contiene la lógica pura del libro mayor de recursos:
// el replay que reconstruye un balance desde su audit trail.
package ledger

import (
	"fmt"

	"github.com/davidmora/shopledger-api/internal/domain/entity"
)

// ChainError señala una cadena de auditoría rota: la entrada en la posición
// Index no encadena con la cantidad acumulada hasta ese punto.
type ChainError struct {
	Index    int
	Expected int64
	Got      int64
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("cadena de auditoría rota en la entrada %d: previous_quantity=%d, esperado %d", e.Index, e.Got, e.Expected)
}

// Replay repliega las entradas de auditoría de un (tienda, recurso) en orden
// cronológico partiendo de 0 y devuelve el balance reconstruido.
// Valida el invariante de cadena: el previous_quantity de cada entrada debe
// ser igual al new_quantity de la anterior (0 para la primera) y el delta
// debe ser consistente. El balance vivo es solo una proyección de esta cadena.
func Replay(entries []*entity.AuditEntry) (int64, error) {
	var current int64
	for i, e := range entries {
		if e.PreviousQuantity != current {
			return 0, &ChainError{Index: i, Expected: current, Got: e.PreviousQuantity}
		}
		if e.NewQuantity-e.PreviousQuantity != e.Delta {
			return 0, fmt.Errorf("entrada %d inconsistente: delta=%d pero new-previous=%d", i, e.Delta, e.NewQuantity-e.PreviousQuantity)
		}
		if e.NewQuantity < 0 {
			return 0, fmt.Errorf("entrada %d inconsistente: new_quantity negativa (%d)", i, e.NewQuantity)
		}
		current = e.NewQuantity
	}
	return current, nil
}
