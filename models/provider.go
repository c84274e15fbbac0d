package models

import "time"

// ProviderBalance — нормализованный баланс от внешнего провайдера,
// уже в целых монетах (не в сатоши/wei). Поля TotalReceived/TotalSent/TxCount
// отдаёт только UTXO-эксплорер, для EVM они nil.
type ProviderBalance struct {
	Balance            float64  `json:"balance"`
	ConfirmedBalance   float64  `json:"confirmed_balance"`
	UnconfirmedBalance float64  `json:"unconfirmed_balance"`
	TotalReceived      *float64 `json:"total_received,omitempty"`
	TotalSent          *float64 `json:"total_sent,omitempty"`
	TxCount            *int64   `json:"tx_count,omitempty"`
}

// ChainTransaction — транзакция провайдера, приведённая к общему виду.
// Direction уже посчитан относительно синхронизируемого адреса.
type ChainTransaction struct {
	TxHash        string
	FromAddress   string
	ToAddress     string
	Amount        float64
	Direction     string
	Status        string
	Confirmations int64
	BlockNumber   int64
	Timestamp     time.Time
	Fee           float64
}
