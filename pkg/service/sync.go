package service

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/metrics"
	"p2p_exchange_back/pkg/repository"
	"p2p_exchange_back/pkg/utils"
)

// ErrProviderFetch — провайдер данных недоступен или вернул ошибку.
// Обёртка одна для всех сетей: и Bitcoin, и EVM падают одинаково.
var ErrProviderFetch = errors.New("не удалось получить данные от провайдера")

const defaultTxLimit = 50

type SyncService struct {
	wallets   repository.Wallet
	ledger    repository.Transaction
	pools     repository.Pool
	snapshots repository.Snapshot
	chains    AdapterResolver
	prices    PriceSource
	txLimit   int
}

func NewSyncService(repos *repository.Repository, chains AdapterResolver, prices PriceSource) *SyncService {
	return &SyncService{
		wallets:   repos.Wallet,
		ledger:    repos.Transaction,
		pools:     repos.Pool,
		snapshots: repos.Snapshot,
		chains:    chains,
		prices:    prices,
		txLimit:   defaultTxLimit,
	}
}

// SyncWallet — полный цикл синхронизации одного кошелька:
// баланс -> транзакции -> леджер -> счётчики кошелька -> пул -> снапшот.
// Пул всегда пересчитывается с нуля по всем кошелькам валюты.
func (s *SyncService) SyncWallet(walletID int64) (models.SyncResult, error) {
	wallet, err := s.wallets.GetWalletByID(walletID)
	if err != nil {
		return models.SyncResult{}, err
	}

	syncedAt := time.Now().UTC()

	adapter, err := s.chains.Resolve(wallet.Blockchain)
	if err != nil {
		// Деградированный режим: сети без API синхронизируем руками.
		logrus.Infof("Кошелёк %d (%s): автоматическая синхронизация недоступна: %s",
			wallet.ID, wallet.Blockchain, err)
		metrics.SyncTotal.WithLabelValues(wallet.Blockchain, "manual").Inc()
		return models.SyncResult{
			SyncedAt: syncedAt,
			Message:  "автоматическое получение баланса для этой сети недоступно, требуется ручной ввод",
		}, nil
	}

	balance, err := adapter.FetchBalance(wallet.Address)
	if err != nil {
		return models.SyncResult{}, s.providerFailure(wallet, err)
	}

	txs, err := adapter.FetchTransactions(wallet.Address, s.txLimit)
	if err != nil {
		return models.SyncResult{}, s.providerFailure(wallet, err)
	}

	imported := 0
	for _, ct := range txs {
		exists, err := s.ledger.TxExists(ct.TxHash)
		if err != nil {
			logrus.Errorf("Проверка транзакции %s не удалась: %s", ct.TxHash, err)
			continue
		}
		if exists {
			continue // уже импортирована
		}

		row := s.buildLedgerRow(wallet, ct)
		if _, err := s.ledger.CreateTransaction(row); err != nil {
			// одна битая транзакция не валит весь sync
			logrus.Errorf("Не удалось сохранить транзакцию %s: %s", ct.TxHash, err)
			continue
		}
		imported++
		metrics.TransactionsImported.Inc()
	}

	// Балансы берём у провайдера, а received/sent/count потом перетираем
	// пересчётом по локальному леджеру.
	if err := s.wallets.UpdateWalletBalances(wallet.ID, *balance, syncedAt); err != nil {
		return models.SyncResult{}, err
	}
	received, sent, txCount, err := s.ledger.WalletLedgerTotals(wallet.ID)
	if err != nil {
		return models.SyncResult{}, err
	}
	if err := s.wallets.UpdateWalletTotals(wallet.ID, received, sent, txCount); err != nil {
		return models.SyncResult{}, err
	}

	if _, err := s.pools.RecomputePool(wallet.Currency); err != nil {
		return models.SyncResult{}, err
	}

	var usdValue *float64
	if price, err := s.prices.CurrentPrice(wallet.Currency); err == nil {
		v := balance.Balance * price
		usdValue = &v
	} else {
		logrus.Warnf("Нет текущей цены для %s: %s", wallet.Currency, err)
	}

	// Снапшот best-effort: его потеря не отменяет синхронизацию.
	snapshot := models.BalanceSnapshot{
		SnapshotDate: syncedAt,
		SourceType:   "wallet",
		SourceID:     wallet.ID,
		Currency:     wallet.Currency,
		Balance:      balance.Balance,
		USDValue:     usdValue,
	}
	if _, err := s.snapshots.CreateSnapshot(snapshot); err != nil {
		logrus.Errorf("Не удалось записать снапшот для кошелька %d: %s", wallet.ID, err)
		metrics.SnapshotFailures.Inc()
	}

	metrics.SyncTotal.WithLabelValues(wallet.Blockchain, "ok").Inc()
	logrus.Infof("Кошелёк %d (%s) синхронизирован: баланс %f, новых транзакций %d",
		wallet.ID, wallet.Currency, balance.Balance, imported)

	b := balance.Balance
	return models.SyncResult{
		Balance:           &b,
		USDValue:          usdValue,
		TransactionsFound: imported,
		SyncedAt:          syncedAt,
	}, nil
}

func (s *SyncService) providerFailure(wallet models.WalletAddress, cause error) error {
	metrics.SyncTotal.WithLabelValues(wallet.Blockchain, "error").Inc()
	go utils.SendSyncAlertMailjet(wallet.Address, wallet.Blockchain, cause.Error())
	return errors.Wrapf(ErrProviderFetch, "%s (%s): %v", wallet.Address, wallet.Blockchain, cause)
}

// buildLedgerRow собирает строку леджера: валюта/кошелёк владельца,
// пометка внутреннего перевода и USD-оценки.
func (s *SyncService) buildLedgerRow(wallet models.WalletAddress, ct models.ChainTransaction) models.BlockchainTransaction {
	row := models.BlockchainTransaction{
		TxHash:        ct.TxHash,
		Blockchain:    wallet.Blockchain,
		FromAddress:   ct.FromAddress,
		ToAddress:     ct.ToAddress,
		Amount:        ct.Amount,
		Currency:      wallet.Currency,
		Direction:     ct.Direction,
		Status:        ct.Status,
		Confirmations: ct.Confirmations,
		BlockNumber:   ct.BlockNumber,
		Timestamp:     ct.Timestamp,
		Fee:           ct.Fee,
		WalletID:      wallet.ID,
	}

	if related, ok := s.detectInternalTransfer(wallet, ct); ok {
		row.IsInternalTransfer = true
		if related != wallet.ID {
			row.RelatedWalletID = &related
		}
	}

	if ct.Timestamp.IsZero() {
		return s.valuate(row, ct.Amount, wallet.Currency, nil)
	}
	return s.valuate(row, ct.Amount, wallet.Currency, &ct.Timestamp)
}

// detectInternalTransfer: оба контрагента — наши кошельки.
// Такие переводы не считаются реальным притоком/оттоком в отчётах.
func (s *SyncService) detectInternalTransfer(wallet models.WalletAddress, ct models.ChainTransaction) (int64, bool) {
	if ct.FromAddress == "" || ct.ToAddress == "" {
		return 0, false
	}

	fromWallet, errFrom := s.wallets.GetWalletByAddress(ct.FromAddress)
	if errFrom != nil {
		return 0, false
	}
	toWallet, errTo := s.wallets.GetWalletByAddress(ct.ToAddress)
	if errTo != nil {
		return 0, false
	}

	related := fromWallet.ID
	if related == wallet.ID {
		related = toWallet.ID
	}
	return related, true
}

// valuate проставляет историческую и текущую USD-оценку.
// Нет котировки — поля остаются nil, sync продолжается.
func (s *SyncService) valuate(row models.BlockchainTransaction, amount float64, currency string, at *time.Time) models.BlockchainTransaction {
	if at != nil {
		if price, err := s.prices.HistoricalPrice(currency, *at); err == nil {
			v := amount * price
			row.PriceAtTx = &price
			row.USDValueAtTx = &v
		} else {
			logrus.Warnf("Нет исторической цены %s на %s: %s", currency, at.Format("02-01-2006"), err)
		}
	}
	if price, err := s.prices.CurrentPrice(currency); err == nil {
		v := amount * price
		row.USDValueNow = &v
	}
	return row
}
