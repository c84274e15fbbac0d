package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"p2p_exchange_back/models"
)

type TransactionPostgres struct {
	db *sqlx.DB
}

func NewTransactionPostgres(db *sqlx.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

func (r *TransactionPostgres) TxExists(txHash string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM blockchain_transactions WHERE tx_hash = $1)`
	err := r.db.Get(&exists, query, txHash)
	return exists, err
}

func (r *TransactionPostgres) CreateTransaction(tx models.BlockchainTransaction) (int64, error) {
	var id int64
	query := `
        INSERT INTO blockchain_transactions
            (tx_hash, blockchain, from_address, to_address, amount, currency,
             direction, status, confirmations, block_number, timestamp, fee,
             wallet_id, is_internal_transfer, related_wallet_id,
             usd_value_at_tx, usd_value_now, price_at_tx)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        RETURNING id
    `
	err := r.db.QueryRow(query,
		tx.TxHash, tx.Blockchain, tx.FromAddress, tx.ToAddress, tx.Amount,
		tx.Currency, tx.Direction, tx.Status, tx.Confirmations, tx.BlockNumber,
		tx.Timestamp, tx.Fee, tx.WalletID, tx.IsInternalTransfer,
		tx.RelatedWalletID, tx.USDValueAtTx, tx.USDValueNow, tx.PriceAtTx,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "вставка транзакции %s", tx.TxHash)
	}
	return id, nil
}

func (r *TransactionPostgres) GetTransactionsByWallet(walletID int64, limit int) ([]models.BlockchainTransaction, error) {
	var txs []models.BlockchainTransaction
	query := `
        SELECT id, tx_hash, blockchain, from_address, to_address, amount,
               currency, direction, status, confirmations, block_number,
               timestamp, fee, wallet_id, is_internal_transfer,
               related_wallet_id, usd_value_at_tx, usd_value_now, price_at_tx
        FROM blockchain_transactions
        WHERE wallet_id = $1
        ORDER BY timestamp DESC
        LIMIT $2
    `
	err := r.db.Select(&txs, query, walletID, limit)
	return txs, err
}

// WalletLedgerTotals пересчитывает received/sent/count по локальному леджеру.
// Внутренние переводы между своими кошельками в приток/отток не попадают.
func (r *TransactionPostgres) WalletLedgerTotals(walletID int64) (float64, float64, int64, error) {
	var totals struct {
		Received float64 `db:"received"`
		Sent     float64 `db:"sent"`
		TxCount  int64   `db:"tx_count"`
	}
	query := `
        SELECT
            COALESCE(SUM(amount) FILTER (WHERE direction = 'incoming' AND NOT is_internal_transfer), 0) AS received,
            COALESCE(SUM(amount) FILTER (WHERE direction = 'outgoing' AND NOT is_internal_transfer), 0) AS sent,
            COUNT(*) AS tx_count
        FROM blockchain_transactions
        WHERE wallet_id = $1
    `
	if err := r.db.Get(&totals, query, walletID); err != nil {
		return 0, 0, 0, errors.Wrap(err, "пересчёт счётчиков по леджеру")
	}
	return totals.Received, totals.Sent, totals.TxCount, nil
}
