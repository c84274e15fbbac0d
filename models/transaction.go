package models

import "time"

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
	DirectionInternal = "internal"
)

const (
	TxStatusConfirmed = "confirmed"
	TxStatusPending   = "pending"
)

// BlockchainTransaction — строка леджера. Уникальна по tx_hash,
// после вставки не обновляется.
type BlockchainTransaction struct {
	ID                 int64     `db:"id" json:"id"`
	TxHash             string    `db:"tx_hash" json:"tx_hash"`
	Blockchain         string    `db:"blockchain" json:"blockchain"`
	FromAddress        string    `db:"from_address" json:"from_address"`
	ToAddress          string    `db:"to_address" json:"to_address"`
	Amount             float64   `db:"amount" json:"amount"`
	Currency           string    `db:"currency" json:"currency"`
	Direction          string    `db:"direction" json:"direction"`
	Status             string    `db:"status" json:"status"`
	Confirmations      int64     `db:"confirmations" json:"confirmations"`
	BlockNumber        int64     `db:"block_number" json:"block_number"`
	Timestamp          time.Time `db:"timestamp" json:"timestamp"`
	Fee                float64   `db:"fee" json:"fee"`
	WalletID           int64     `db:"wallet_id" json:"wallet_id"`
	IsInternalTransfer bool      `db:"is_internal_transfer" json:"is_internal_transfer"`
	RelatedWalletID    *int64    `db:"related_wallet_id" json:"related_wallet_id,omitempty"`
	USDValueAtTx       *float64  `db:"usd_value_at_tx" json:"usd_value_at_tx,omitempty"`
	USDValueNow        *float64  `db:"usd_value_now" json:"usd_value_now,omitempty"`
	PriceAtTx          *float64  `db:"price_at_tx" json:"price_at_tx,omitempty"`
}
