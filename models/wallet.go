package models

import "time"

// WalletAddress — отслеживаемый адрес в блокчейне. Балансы перезаписываются
// синхронизацией целиком, инкрементально не меняются.
type WalletAddress struct {
	ID                 int64      `db:"id" json:"id"`
	Address            string     `db:"address" json:"address"`
	Blockchain         string     `db:"blockchain" json:"blockchain"`
	Currency           string     `db:"currency" json:"currency"`
	Label              string     `db:"label" json:"label"`
	Balance            float64    `db:"balance" json:"balance"` // можно использовать decimal.Decimal для высокой точности
	ConfirmedBalance   float64    `db:"confirmed_balance" json:"confirmed_balance"`
	UnconfirmedBalance float64    `db:"unconfirmed_balance" json:"unconfirmed_balance"`
	TotalReceived      float64    `db:"total_received" json:"total_received"`
	TotalSent          float64    `db:"total_sent" json:"total_sent"`
	TxCount            int64      `db:"tx_count" json:"tx_count"`
	LastSyncAt         *time.Time `db:"last_sync_at" json:"last_sync_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

type CreateWalletInput struct {
	Address    string `json:"address" binding:"required"`
	Blockchain string `json:"blockchain" binding:"required"`
	Currency   string `json:"currency" binding:"required"`
	Label      string `json:"label"`
}

// SyncResult — ответ эндпоинта синхронизации. Balance/USDValue == nil,
// когда для сети нет бесплатного API и баланс вводится вручную.
type SyncResult struct {
	Balance           *float64  `json:"balance"`
	USDValue          *float64  `json:"usd_value"`
	TransactionsFound int       `json:"transactions_found"`
	SyncedAt          time.Time `json:"synced_at"`
	Message           string    `json:"message,omitempty"`
}
