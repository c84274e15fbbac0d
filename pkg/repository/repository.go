package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"p2p_exchange_back/models"
)

type Wallet interface {
	CreateWallet(input models.CreateWalletInput) (int64, error)
	GetWallets() ([]models.WalletAddress, error)
	GetWalletByID(id int64) (models.WalletAddress, error)
	GetWalletByAddress(address string) (models.WalletAddress, error)
	UpdateWalletBalances(id int64, balance models.ProviderBalance, syncedAt time.Time) error
	UpdateWalletTotals(id int64, received, sent float64, txCount int64) error
}

type Transaction interface {
	TxExists(txHash string) (bool, error)
	CreateTransaction(tx models.BlockchainTransaction) (int64, error)
	GetTransactionsByWallet(walletID int64, limit int) ([]models.BlockchainTransaction, error)
	WalletLedgerTotals(walletID int64) (received, sent float64, txCount int64, err error)
}

type Pool interface {
	RecomputePool(currency string) (models.LiquidityPool, error)
	GetPools() ([]models.LiquidityPool, error)
}

type Snapshot interface {
	CreateSnapshot(s models.BalanceSnapshot) (int64, error)
	GetSnapshots(filter models.SnapshotFilter) ([]models.BalanceSnapshot, error)
}

type Repository struct {
	Wallet
	Transaction
	Pool
	Snapshot
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Wallet:      NewWalletPostgres(db),
		Transaction: NewTransactionPostgres(db),
		Pool:        NewPoolPostgres(db),
		Snapshot:    NewSnapshotPostgres(db),
	}
}
