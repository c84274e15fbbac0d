package service

import (
	"time"

	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/chain"
	"p2p_exchange_back/pkg/repository"
)

type Wallet interface {
	CreateWallet(input models.CreateWalletInput) (int64, error)
	GetWallets() ([]models.WalletAddress, error)
	GetWallet(id int64) (models.WalletAddress, error)
	GetTransactions(walletID int64, limit int) ([]models.BlockchainTransaction, error)
}

type Sync interface {
	SyncWallet(walletID int64) (models.SyncResult, error)
}

type Treasury interface {
	GetPools() ([]models.LiquidityPool, error)
	GetSnapshots(filter models.SnapshotFilter) ([]models.BalanceSnapshot, error)
}

// AdapterResolver выбирает провайдера данных по имени блокчейна.
type AdapterResolver interface {
	Resolve(blockchain string) (chain.Adapter, error)
}

// PriceSource — котировки в USD. Недоступность цены не должна
// валить синхронизацию: USD-поля просто остаются пустыми.
type PriceSource interface {
	CurrentPrice(symbol string) (float64, error)
	HistoricalPrice(symbol string, at time.Time) (float64, error)
}

type Service struct {
	Wallet
	Sync
	Treasury
}

func NewService(repos *repository.Repository, chains AdapterResolver, prices PriceSource) *Service {
	return &Service{
		Wallet:   NewWalletService(repos),
		Sync:     NewSyncService(repos, chains, prices),
		Treasury: NewTreasuryService(repos),
	}
}
