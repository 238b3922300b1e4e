package repository

// Repos agrupa los repositorios atados a una misma transacción. El TxRunner
// de infraestructura entrega un Repos cuyo Querier es la tx; todo lo que se
// haga con él entra en el mismo Commit o Rollback.
type Repos struct {
	Shops         ShopRepository
	Resources     ResourceRepository
	Balances      BalanceRepository
	Audit         AuditRepository
	Alerts        AlertRepository
	Notifications NotificationRepository
}
