package models

import "time"

// LiquidityPool — агрегат по валюте. total_balance всегда равен сумме
// балансов всех кошельков этой валюты: пересчитывается с нуля при каждой
// синхронизации, инкремент запрещён (иначе двойной счёт при повторном sync).
type LiquidityPool struct {
	ID               int64     `db:"id" json:"id"`
	Currency         string    `db:"currency" json:"currency"`
	SourceType       string    `db:"source_type" json:"source_type"`
	TotalBalance     float64   `db:"total_balance" json:"total_balance"`
	AvailableBalance float64   `db:"available_balance" json:"available_balance"`
	LockedBalance    float64   `db:"locked_balance" json:"locked_balance"`
	LastSyncAt       time.Time `db:"last_sync_at" json:"last_sync_at"`
}
