package ledger

import (
	"context"

	"github.com/davidmora/shopledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de ledger:
// balance, entrada de auditoría, transición de alerta y notificación de un
// mismo update entran juntos o no entra ninguno.
//
// La implementación debe traducir los fallos de serialización o deadlock del
// almacenamiento a domain.ErrConcurrency para que el coordinador reintente.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}
