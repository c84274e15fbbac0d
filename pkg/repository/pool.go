package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"p2p_exchange_back/models"
)

type PoolPostgres struct {
	db *sqlx.DB
}

func NewPoolPostgres(db *sqlx.DB) *PoolPostgres {
	return &PoolPostgres{db: db}
}

const poolColumns = `id, currency, source_type, total_balance,
	available_balance, locked_balance, last_sync_at`

// RecomputePool пересчитывает пул валюты с нуля: сумма балансов всех
// кошельков этой валюты ЗАМЕНЯЕТ total_balance, никогда не прибавляется.
// Advisory-lock по валюте закрывает гонку двух параллельных синхронизаций
// кошельков одной валюты (read-sum / replace-total).
func (r *PoolPostgres) RecomputePool(currency string) (models.LiquidityPool, error) {
	var pool models.LiquidityPool

	tx, err := r.db.Beginx()
	if err != nil {
		return pool, errors.Wrap(err, "пересчёт пула: begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, "pool:"+currency); err != nil {
		return pool, errors.Wrap(err, "пересчёт пула: advisory lock")
	}

	var total float64
	err = tx.Get(&total,
		`SELECT COALESCE(SUM(balance), 0) FROM wallet_addresses WHERE currency = $1`,
		currency)
	if err != nil {
		return pool, errors.Wrap(err, "пересчёт пула: сумма балансов")
	}

	query := `
        INSERT INTO liquidity_pools
            (currency, source_type, total_balance, available_balance, locked_balance, last_sync_at)
        VALUES ($1, 'wallet', $2, $2, 0, NOW())
        ON CONFLICT (currency, source_type) DO UPDATE
        SET total_balance = EXCLUDED.total_balance,
            available_balance = EXCLUDED.available_balance,
            last_sync_at = NOW()
        RETURNING ` + poolColumns
	if err := tx.Get(&pool, query, currency, total); err != nil {
		return pool, errors.Wrap(err, "пересчёт пула: upsert")
	}

	if err := tx.Commit(); err != nil {
		return pool, errors.Wrap(err, "пересчёт пула: commit")
	}
	return pool, nil
}

func (r *PoolPostgres) GetPools() ([]models.LiquidityPool, error) {
	var pools []models.LiquidityPool
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools ORDER BY currency, source_type`
	err := r.db.Select(&pools, query)
	return pools, err
}
