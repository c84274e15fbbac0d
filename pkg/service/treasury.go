package service

import (
	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/repository"
)

type TreasuryService struct {
	pools     repository.Pool
	snapshots repository.Snapshot
}

func NewTreasuryService(repos *repository.Repository) *TreasuryService {
	return &TreasuryService{
		pools:     repos.Pool,
		snapshots: repos.Snapshot,
	}
}

func (s *TreasuryService) GetPools() ([]models.LiquidityPool, error) {
	return s.pools.GetPools()
}

func (s *TreasuryService) GetSnapshots(filter models.SnapshotFilter) ([]models.BalanceSnapshot, error) {
	return s.snapshots.GetSnapshots(filter)
}
