package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"p2p_exchange_back/models"
)

type SnapshotPostgres struct {
	db *sqlx.DB
}

func NewSnapshotPostgres(db *sqlx.DB) *SnapshotPostgres {
	return &SnapshotPostgres{db: db}
}

func (r *SnapshotPostgres) CreateSnapshot(s models.BalanceSnapshot) (int64, error) {
	var id int64
	query := `
        INSERT INTO balance_snapshots
            (snapshot_date, source_type, source_id, currency, balance, usd_value)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(query,
		s.SnapshotDate, s.SourceType, s.SourceID, s.Currency, s.Balance, s.USDValue,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "вставка снапшота")
	}
	return id, nil
}

func (r *SnapshotPostgres) GetSnapshots(filter models.SnapshotFilter) ([]models.BalanceSnapshot, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var snapshots []models.BalanceSnapshot
	query := `
        SELECT id, snapshot_date, source_type, source_id, currency, balance, usd_value
        FROM balance_snapshots
        WHERE ($1::bigint IS NULL OR source_id = $1)
          AND ($2 = '' OR currency = $2)
        ORDER BY snapshot_date DESC
        LIMIT $3
    `
	err := r.db.Select(&snapshots, query, filter.SourceID, filter.Currency, limit)
	return snapshots, err
}
