package address

import (
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"p2p_exchange_back/pkg/chain"
)

// Validate проверяет формат адреса для данного блокчейна перед регистрацией
// кошелька. Для сетей без известного формата — только непустая строка.
func Validate(blockchain, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("пустой адрес")
	}

	name := strings.ToLower(blockchain)
	switch {
	case chain.IsEVMChain(name):
		if !common.IsHexAddress(addr) {
			return errors.Errorf("некорректный EVM-адрес: %s", addr)
		}
	case name == "bitcoin" || name == "litecoin" || name == "dogecoin":
		if name == "bitcoin" && strings.HasPrefix(addr, "bc1") {
			return nil // bech32 принимаем по префиксу
		}
		if err := checkBase58Check(addr); err != nil {
			return errors.Wrapf(err, "некорректный %s-адрес %s", name, addr)
		}
	case name == "tron":
		if err := checkTronAddress(addr); err != nil {
			return errors.Wrapf(err, "некорректный TRON-адрес %s", addr)
		}
	}
	return nil
}

// checkBase58Check — base58check: последние 4 байта это чексума
// от двойного SHA256 остальной части.
func checkBase58Check(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return err
	}
	if len(decoded) != 25 {
		return errors.Errorf("длина %d байт вместо 25", len(decoded))
	}

	payload := decoded[:21]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	checksum := second[:4]

	for i := 0; i < 4; i++ {
		if decoded[21+i] != checksum[i] {
			return errors.New("не сошлась чексума")
		}
	}
	return nil
}

func checkTronAddress(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return err
	}
	if len(decoded) != 25 || decoded[0] != 0x41 {
		return errors.New("ожидается base58check с префиксом 0x41")
	}
	return checkBase58Check(addr)
}
