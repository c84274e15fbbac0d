package models

import "time"

// BalanceSnapshot — историческая точка баланса, только добавление.
type BalanceSnapshot struct {
	ID           int64     `db:"id" json:"id"`
	SnapshotDate time.Time `db:"snapshot_date" json:"snapshot_date"`
	SourceType   string    `db:"source_type" json:"source_type"`
	SourceID     int64     `db:"source_id" json:"source_id"`
	Currency     string    `db:"currency" json:"currency"`
	Balance      float64   `db:"balance" json:"balance"`
	USDValue     *float64  `db:"usd_value" json:"usd_value,omitempty"`
}

type SnapshotFilter struct {
	SourceID *int64
	Currency string
	Limit    int
}
