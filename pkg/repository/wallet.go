package repository

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"p2p_exchange_back/models"
)

type WalletPostgres struct {
	db *sqlx.DB
}

func NewWalletPostgres(db *sqlx.DB) *WalletPostgres {
	return &WalletPostgres{db: db}
}

const walletColumns = `id, address, blockchain, currency, label, balance,
	confirmed_balance, unconfirmed_balance, total_received, total_sent,
	tx_count, last_sync_at, created_at`

func (r *WalletPostgres) CreateWallet(input models.CreateWalletInput) (int64, error) {
	var id int64
	query := `
        INSERT INTO wallet_addresses (address, blockchain, currency, label)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.db.QueryRow(
		query,
		input.Address,
		strings.ToLower(input.Blockchain),
		strings.ToUpper(input.Currency),
		input.Label,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "создание кошелька")
	}
	return id, nil
}

func (r *WalletPostgres) GetWallets() ([]models.WalletAddress, error) {
	var wallets []models.WalletAddress
	query := `SELECT ` + walletColumns + ` FROM wallet_addresses ORDER BY id`
	err := r.db.Select(&wallets, query)
	return wallets, err
}

func (r *WalletPostgres) GetWalletByID(id int64) (models.WalletAddress, error) {
	var wallet models.WalletAddress
	query := `SELECT ` + walletColumns + ` FROM wallet_addresses WHERE id = $1`
	err := r.db.Get(&wallet, query, id)
	return wallet, err
}

func (r *WalletPostgres) GetWalletByAddress(address string) (models.WalletAddress, error) {
	var wallet models.WalletAddress
	query := `SELECT ` + walletColumns + ` FROM wallet_addresses WHERE LOWER(address) = LOWER($1)`
	err := r.db.Get(&wallet, query, address)
	return wallet, err
}

// UpdateWalletBalances перезаписывает балансные поля данными провайдера.
// TotalReceived/TotalSent/TxCount трогаем только если провайдер их отдал —
// дальше их всё равно перетрёт пересчёт по леджеру.
func (r *WalletPostgres) UpdateWalletBalances(id int64, b models.ProviderBalance, syncedAt time.Time) error {
	query := `
        UPDATE wallet_addresses
        SET balance = $2,
            confirmed_balance = $3,
            unconfirmed_balance = $4,
            total_received = COALESCE($5, total_received),
            total_sent = COALESCE($6, total_sent),
            tx_count = COALESCE($7, tx_count),
            last_sync_at = $8
        WHERE id = $1
    `
	_, err := r.db.Exec(query, id,
		b.Balance, b.ConfirmedBalance, b.UnconfirmedBalance,
		b.TotalReceived, b.TotalSent, b.TxCount, syncedAt)
	return errors.Wrap(err, "обновление балансов кошелька")
}

func (r *WalletPostgres) UpdateWalletTotals(id int64, received, sent float64, txCount int64) error {
	query := `
        UPDATE wallet_addresses
        SET total_received = $2, total_sent = $3, tx_count = $4
        WHERE id = $1
    `
	_, err := r.db.Exec(query, id, received, sent, txCount)
	return errors.Wrap(err, "обновление счётчиков кошелька")
}
