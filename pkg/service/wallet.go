package service

import (
	"p2p_exchange_back/internal/address"
	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/repository"
)

type WalletService struct {
	wallets repository.Wallet
	ledger  repository.Transaction
}

func NewWalletService(repos *repository.Repository) *WalletService {
	return &WalletService{
		wallets: repos.Wallet,
		ledger:  repos.Transaction,
	}
}

func (s *WalletService) CreateWallet(input models.CreateWalletInput) (int64, error) {
	if err := address.Validate(input.Blockchain, input.Address); err != nil {
		return 0, err
	}
	return s.wallets.CreateWallet(input)
}

func (s *WalletService) GetWallets() ([]models.WalletAddress, error) {
	return s.wallets.GetWallets()
}

func (s *WalletService) GetWallet(id int64) (models.WalletAddress, error) {
	return s.wallets.GetWalletByID(id)
}

func (s *WalletService) GetTransactions(walletID int64, limit int) ([]models.BlockchainTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledger.GetTransactionsByWallet(walletID, limit)
}
