package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncTotal — запуски синхронизации по сетям; status: ok|manual|error.
	SyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_sync_total",
		Help: "Количество запусков синхронизации кошельков",
	}, []string{"blockchain", "status"})

	TransactionsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_sync_transactions_imported_total",
		Help: "Количество импортированных транзакций",
	})

	SnapshotFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_sync_snapshot_failures_total",
		Help: "Количество неудачных записей снапшотов",
	})
)
