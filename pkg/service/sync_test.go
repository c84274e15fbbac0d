package service

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/chain"
	"p2p_exchange_back/pkg/repository"
)

// --- фейковые репозитории (в памяти, семантика как у SQL-слоя) ---

type fakeWalletRepo struct {
	wallets map[int64]*models.WalletAddress
	nextID  int64
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[int64]*models.WalletAddress), nextID: 1}
}

func (f *fakeWalletRepo) add(w models.WalletAddress) int64 {
	id := f.nextID
	f.nextID++
	w.ID = id
	f.wallets[id] = &w
	return id
}

func (f *fakeWalletRepo) CreateWallet(input models.CreateWalletInput) (int64, error) {
	return f.add(models.WalletAddress{
		Address:    input.Address,
		Blockchain: strings.ToLower(input.Blockchain),
		Currency:   strings.ToUpper(input.Currency),
		Label:      input.Label,
	}), nil
}

func (f *fakeWalletRepo) GetWallets() ([]models.WalletAddress, error) {
	out := make([]models.WalletAddress, 0, len(f.wallets))
	for _, w := range f.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWalletRepo) GetWalletByID(id int64) (models.WalletAddress, error) {
	w, ok := f.wallets[id]
	if !ok {
		return models.WalletAddress{}, sql.ErrNoRows
	}
	return *w, nil
}

func (f *fakeWalletRepo) GetWalletByAddress(address string) (models.WalletAddress, error) {
	for _, w := range f.wallets {
		if strings.EqualFold(w.Address, address) {
			return *w, nil
		}
	}
	return models.WalletAddress{}, sql.ErrNoRows
}

func (f *fakeWalletRepo) UpdateWalletBalances(id int64, b models.ProviderBalance, syncedAt time.Time) error {
	w := f.wallets[id]
	w.Balance = b.Balance
	w.ConfirmedBalance = b.ConfirmedBalance
	w.UnconfirmedBalance = b.UnconfirmedBalance
	if b.TotalReceived != nil {
		w.TotalReceived = *b.TotalReceived
	}
	if b.TotalSent != nil {
		w.TotalSent = *b.TotalSent
	}
	if b.TxCount != nil {
		w.TxCount = *b.TxCount
	}
	w.LastSyncAt = &syncedAt
	return nil
}

func (f *fakeWalletRepo) UpdateWalletTotals(id int64, received, sent float64, txCount int64) error {
	w := f.wallets[id]
	w.TotalReceived = received
	w.TotalSent = sent
	w.TxCount = txCount
	return nil
}

type fakeLedgerRepo struct {
	rows       map[string]models.BlockchainTransaction
	failHashes map[string]bool
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		rows:       make(map[string]models.BlockchainTransaction),
		failHashes: make(map[string]bool),
	}
}

func (f *fakeLedgerRepo) TxExists(txHash string) (bool, error) {
	_, ok := f.rows[txHash]
	return ok, nil
}

func (f *fakeLedgerRepo) CreateTransaction(tx models.BlockchainTransaction) (int64, error) {
	if f.failHashes[tx.TxHash] {
		return 0, errors.New("insert failed")
	}
	tx.ID = int64(len(f.rows) + 1)
	f.rows[tx.TxHash] = tx
	return tx.ID, nil
}

func (f *fakeLedgerRepo) GetTransactionsByWallet(walletID int64, limit int) ([]models.BlockchainTransaction, error) {
	var out []models.BlockchainTransaction
	for _, tx := range f.rows {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) WalletLedgerTotals(walletID int64) (float64, float64, int64, error) {
	var received, sent float64
	var count int64
	for _, tx := range f.rows {
		if tx.WalletID != walletID {
			continue
		}
		count++
		if tx.IsInternalTransfer {
			continue
		}
		switch tx.Direction {
		case models.DirectionIncoming:
			received += tx.Amount
		case models.DirectionOutgoing:
			sent += tx.Amount
		}
	}
	return received, sent, count, nil
}

type fakePoolRepo struct {
	wallets *fakeWalletRepo
	pools   map[string]models.LiquidityPool
}

func newFakePoolRepo(wallets *fakeWalletRepo) *fakePoolRepo {
	return &fakePoolRepo{wallets: wallets, pools: make(map[string]models.LiquidityPool)}
}

// RecomputePool повторяет семантику SQL: сумма заменяет total, не прибавляется.
func (f *fakePoolRepo) RecomputePool(currency string) (models.LiquidityPool, error) {
	var total float64
	for _, w := range f.wallets.wallets {
		if w.Currency == currency {
			total += w.Balance
		}
	}
	pool := models.LiquidityPool{
		Currency:         currency,
		SourceType:       "wallet",
		TotalBalance:     total,
		AvailableBalance: total,
		LastSyncAt:       time.Now(),
	}
	f.pools[currency] = pool
	return pool, nil
}

func (f *fakePoolRepo) GetPools() ([]models.LiquidityPool, error) {
	out := make([]models.LiquidityPool, 0, len(f.pools))
	for _, p := range f.pools {
		out = append(out, p)
	}
	return out, nil
}

type fakeSnapshotRepo struct {
	snapshots []models.BalanceSnapshot
	fail      bool
}

func (f *fakeSnapshotRepo) CreateSnapshot(s models.BalanceSnapshot) (int64, error) {
	if f.fail {
		return 0, errors.New("snapshot insert failed")
	}
	f.snapshots = append(f.snapshots, s)
	return int64(len(f.snapshots)), nil
}

func (f *fakeSnapshotRepo) GetSnapshots(filter models.SnapshotFilter) ([]models.BalanceSnapshot, error) {
	return f.snapshots, nil
}

// --- фейковый адаптер и котировки ---

type fakeAdapter struct {
	balance    *models.ProviderBalance
	txs        []models.ChainTransaction
	balanceErr error
	txsErr     error
}

func (f *fakeAdapter) FetchBalance(string) (*models.ProviderBalance, error) {
	return f.balance, f.balanceErr
}

func (f *fakeAdapter) FetchTransactions(string, int) ([]models.ChainTransaction, error) {
	return f.txs, f.txsErr
}

type fakePrices struct {
	current    map[string]float64
	historical map[string]float64
	err        error
}

func (f *fakePrices) CurrentPrice(symbol string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.current[symbol], nil
}

func (f *fakePrices) HistoricalPrice(symbol string, _ time.Time) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.historical[symbol], nil
}

// --- сборка тестового окружения ---

type syncFixture struct {
	wallets   *fakeWalletRepo
	ledger    *fakeLedgerRepo
	pools     *fakePoolRepo
	snapshots *fakeSnapshotRepo
	registry  *chain.Registry
	prices    *fakePrices
	service   *SyncService
}

func newSyncFixture() *syncFixture {
	wallets := newFakeWalletRepo()
	ledger := newFakeLedgerRepo()
	pools := newFakePoolRepo(wallets)
	snapshots := &fakeSnapshotRepo{}
	registry := chain.NewRegistry(
		chain.NewBlockchainComClient(""),
		chain.NewMoralisClient("", "key"),
	)
	prices := &fakePrices{
		current:    map[string]float64{"BTC": 60000, "ETH": 3000},
		historical: map[string]float64{"BTC": 50000, "ETH": 2500},
	}

	repos := &repository.Repository{
		Wallet:      wallets,
		Transaction: ledger,
		Pool:        pools,
		Snapshot:    snapshots,
	}
	return &syncFixture{
		wallets:   wallets,
		ledger:    ledger,
		pools:     pools,
		snapshots: snapshots,
		registry:  registry,
		prices:    prices,
		service:   NewSyncService(repos, registry, prices),
	}
}

func btcIncomingTx(hash string, amount float64) models.ChainTransaction {
	return models.ChainTransaction{
		TxHash:      hash,
		FromAddress: "1SENDER",
		ToAddress:   "1ABC",
		Amount:      amount,
		Direction:   models.DirectionIncoming,
		Status:      models.TxStatusConfirmed,
		BlockNumber: 800000,
		Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// --- тесты ---

func TestSyncWalletImportsIncoming(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 0.5, ConfirmedBalance: 0.5},
		txs:     []models.ChainTransaction{btcIncomingTx("hash1", 0.5)},
	})

	result, err := fx.service.SyncWallet(id)
	require.NoError(t, err)

	require.NotNil(t, result.Balance)
	assert.Equal(t, 0.5, *result.Balance)
	assert.Equal(t, 1, result.TransactionsFound)
	require.NotNil(t, result.USDValue)
	assert.Equal(t, 30000.0, *result.USDValue)

	row, ok := fx.ledger.rows["hash1"]
	require.True(t, ok)
	assert.Equal(t, models.DirectionIncoming, row.Direction)
	assert.Equal(t, 0.5, row.Amount)
	assert.Equal(t, "1ABC", row.ToAddress)
	assert.Equal(t, "BTC", row.Currency)
	assert.Equal(t, id, row.WalletID)
	require.NotNil(t, row.PriceAtTx)
	assert.Equal(t, 50000.0, *row.PriceAtTx)
	require.NotNil(t, row.USDValueAtTx)
	assert.Equal(t, 25000.0, *row.USDValueAtTx)
	require.NotNil(t, row.USDValueNow)
	assert.Equal(t, 30000.0, *row.USDValueNow)

	wallet, _ := fx.wallets.GetWalletByID(id)
	assert.Equal(t, 0.5, wallet.Balance)
	assert.Equal(t, 0.5, wallet.TotalReceived, "received пересчитан по леджеру")
	assert.Equal(t, int64(1), wallet.TxCount)
	require.NotNil(t, wallet.LastSyncAt)

	require.Len(t, fx.snapshots.snapshots, 1)
	assert.Equal(t, 0.5, fx.snapshots.snapshots[0].Balance)
}

func TestSyncWalletIdempotent(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 0.5, ConfirmedBalance: 0.5},
		txs:     []models.ChainTransaction{btcIncomingTx("hash1", 0.5)},
	})

	first, err := fx.service.SyncWallet(id)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TransactionsFound)

	second, err := fx.service.SyncWallet(id)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TransactionsFound, "повторный sync не импортирует те же транзакции")
	assert.Len(t, fx.ledger.rows, 1)
}

func TestSyncWalletPoolNoDoubleCount(t *testing.T) {
	fx := newSyncFixture()
	idA := fx.wallets.add(models.WalletAddress{Address: "1AAA", Blockchain: "bitcoin", Currency: "BTC", Balance: 1.0})
	fx.wallets.add(models.WalletAddress{Address: "1BBB", Blockchain: "bitcoin", Currency: "BTC", Balance: 1.0})

	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 1.0, ConfirmedBalance: 1.0},
	})

	for i := 0; i < 3; i++ {
		_, err := fx.service.SyncWallet(idA)
		require.NoError(t, err)
	}

	pool := fx.pools.pools["BTC"]
	assert.Equal(t, 2.0, pool.TotalBalance, "пул заменяется суммой, а не прибавляется")
	assert.Equal(t, 2.0, pool.AvailableBalance)
}

func TestSyncWalletManualChain(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "D6abc", Blockchain: "dogecoin", Currency: "DOGE"})

	result, err := fx.service.SyncWallet(id)
	require.NoError(t, err, "ручная сеть — не ошибка")

	assert.Nil(t, result.Balance)
	assert.Nil(t, result.USDValue)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, fx.snapshots.snapshots)

	wallet, _ := fx.wallets.GetWalletByID(id)
	assert.Nil(t, wallet.LastSyncAt, "кошелёк не трогаем в деградированном режиме")
}

func TestSyncWalletUnknownWallet(t *testing.T) {
	fx := newSyncFixture()

	_, err := fx.service.SyncWallet(42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSyncWalletProviderError(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.registry.Register("bitcoin", &fakeAdapter{
		balanceErr: errors.New("api down"),
	})

	_, err := fx.service.SyncWallet(id)
	assert.ErrorIs(t, err, ErrProviderFetch)
}

func TestSyncWalletPartialImportFailure(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.ledger.failHashes["bad"] = true
	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 1.0, ConfirmedBalance: 1.0},
		txs: []models.ChainTransaction{
			btcIncomingTx("good", 0.3),
			btcIncomingTx("bad", 0.2),
			btcIncomingTx("good2", 0.1),
		},
	})

	result, err := fx.service.SyncWallet(id)
	require.NoError(t, err, "битая транзакция не валит sync")
	assert.Equal(t, 2, result.TransactionsFound)
	assert.Len(t, fx.ledger.rows, 2)
}

func TestSyncWalletPriceUnavailable(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.prices.err = errors.New("coingecko down")
	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 0.5, ConfirmedBalance: 0.5},
		txs:     []models.ChainTransaction{btcIncomingTx("hash1", 0.5)},
	})

	result, err := fx.service.SyncWallet(id)
	require.NoError(t, err, "недоступность котировок не валит sync")
	assert.Nil(t, result.USDValue)

	row := fx.ledger.rows["hash1"]
	assert.Nil(t, row.USDValueAtTx)
	assert.Nil(t, row.USDValueNow)
	assert.Nil(t, row.PriceAtTx)

	require.Len(t, fx.snapshots.snapshots, 1)
	assert.Nil(t, fx.snapshots.snapshots[0].USDValue)
}

func TestSyncWalletSnapshotFailureTolerated(t *testing.T) {
	fx := newSyncFixture()
	id := fx.wallets.add(models.WalletAddress{Address: "1ABC", Blockchain: "bitcoin", Currency: "BTC"})

	fx.snapshots.fail = true
	fx.registry.Register("bitcoin", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 0.5, ConfirmedBalance: 0.5},
	})

	result, err := fx.service.SyncWallet(id)
	require.NoError(t, err, "снапшот best-effort")
	require.NotNil(t, result.Balance)
}

func TestSyncWalletInternalTransferDetection(t *testing.T) {
	fx := newSyncFixture()
	idA := fx.wallets.add(models.WalletAddress{Address: "0xaaa0000000000000000000000000000000000001", Blockchain: "ethereum", Currency: "ETH"})
	idB := fx.wallets.add(models.WalletAddress{Address: "0xbbb0000000000000000000000000000000000002", Blockchain: "ethereum", Currency: "ETH"})

	fx.registry.Register("ethereum", &fakeAdapter{
		balance: &models.ProviderBalance{Balance: 2.0, ConfirmedBalance: 2.0},
		txs: []models.ChainTransaction{
			{
				TxHash:      "0xint",
				FromAddress: "0xbbb0000000000000000000000000000000000002",
				ToAddress:   "0xaaa0000000000000000000000000000000000001",
				Amount:      1.0,
				Direction:   models.DirectionIncoming,
				Status:      models.TxStatusConfirmed,
				Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				TxHash:      "0xext",
				FromAddress: "0xccc0000000000000000000000000000000000003",
				ToAddress:   "0xaaa0000000000000000000000000000000000001",
				Amount:      0.5,
				Direction:   models.DirectionIncoming,
				Status:      models.TxStatusConfirmed,
				Timestamp:   time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			},
		},
	})

	_, err := fx.service.SyncWallet(idA)
	require.NoError(t, err)

	internal := fx.ledger.rows["0xint"]
	assert.True(t, internal.IsInternalTransfer)
	require.NotNil(t, internal.RelatedWalletID)
	assert.Equal(t, idB, *internal.RelatedWalletID)

	external := fx.ledger.rows["0xext"]
	assert.False(t, external.IsInternalTransfer)
	assert.Nil(t, external.RelatedWalletID)

	// внутренний перевод не попадает в received
	wallet, _ := fx.wallets.GetWalletByID(idA)
	assert.Equal(t, 0.5, wallet.TotalReceived)
	assert.Equal(t, int64(2), wallet.TxCount)
}
