package chain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"p2p_exchange_back/models"
)

var (
	// ErrManualChain — для сети нет API, баланс вводится вручную.
	ErrManualChain = errors.New("сеть без API: баланс вводится вручную")
	// ErrUnsupportedChain — сеть не распознана.
	ErrUnsupportedChain = errors.New("неизвестный блокчейн")
)

// Adapter — единый контракт провайдера данных по сети: баланс и список
// транзакций, уже нормализованных относительно запрошенного адреса.
type Adapter interface {
	FetchBalance(address string) (*models.ProviderBalance, error)
	FetchTransactions(address string, limit int) ([]models.ChainTransaction, error)
}

// Registry выбирает адаптер по имени блокчейна (без учёта регистра).
// Каждая сеть обслуживается ровно одним адаптером.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(btc *BlockchainComClient, moralis *MoralisClient) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register("bitcoin", btc)
	for name := range evmChainIDs {
		r.Register(name, moralis.ForChain(name))
	}
	return r
}

func (r *Registry) Register(blockchain string, a Adapter) {
	r.adapters[strings.ToLower(blockchain)] = a
}

func (r *Registry) Resolve(blockchain string) (Adapter, error) {
	name := strings.ToLower(blockchain)
	if IsManualChain(name) {
		return nil, ErrManualChain
	}
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}
	logrus.Warnf("Неизвестный блокчейн: %s", blockchain)
	return nil, ErrUnsupportedChain
}
