package chain

import "strings"

// Соответствие имени EVM-сети hex chain-id для Moralis.
var evmChainIDs = map[string]string{
	"ethereum":  "0x1",
	"bsc":       "0x38",
	"polygon":   "0x89",
	"avalanche": "0xa86a",
	"fantom":    "0xfa",
	"arbitrum":  "0xa4b1",
	"optimism":  "0xa",
	"base":      "0x2105",
}

// Сети без бесплатного API: баланс вводит админ руками.
// Это штатный режим, а не ошибка.
var manualChains = map[string]bool{
	"tron":     true,
	"solana":   true,
	"dogecoin": true,
	"litecoin": true,
	"ripple":   true,
	"ton":      true,
}

func IsEVMChain(blockchain string) bool {
	_, ok := evmChainIDs[strings.ToLower(blockchain)]
	return ok
}

func IsManualChain(blockchain string) bool {
	return manualChains[strings.ToLower(blockchain)]
}

func EVMChainID(blockchain string) (string, bool) {
	id, ok := evmChainIDs[strings.ToLower(blockchain)]
	return id, ok
}
