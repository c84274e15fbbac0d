package chain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"p2p_exchange_back/models"
)

const weiDecimals = 18

// MoralisClient — провайдер данных по EVM-сетям. Один клиент обслуживает
// все сети, конкретная выбирается hex chain-id через ForChain.
type MoralisClient struct {
	client  *resty.Client
	baseURL string
}

func NewMoralisClient(baseURL, apiKey string) *MoralisClient {
	if baseURL == "" {
		baseURL = "https://deep-index.moralis.io/api/v2.2"
	}
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("X-API-Key", apiKey).
		SetHeader("Accept", "application/json")
	return &MoralisClient{client: client, baseURL: baseURL}
}

// ForChain возвращает Adapter, привязанный к конкретной EVM-сети.
func (c *MoralisClient) ForChain(blockchain string) Adapter {
	hexID, _ := EVMChainID(blockchain)
	return &moralisChain{client: c, chainHex: hexID}
}

type moralisChain struct {
	client   *MoralisClient
	chainHex string
}

type moralisBalance struct {
	Balance string `json:"balance"`
}

type moralisTransfer struct {
	FromAddress    string `json:"from_address"`
	ToAddress      string `json:"to_address"`
	Value          string `json:"value"`
	ValueFormatted string `json:"value_formatted"`
	Direction      string `json:"direction"`
}

type moralisTx struct {
	Hash            string            `json:"hash"`
	FromAddress     string            `json:"from_address"`
	ToAddress       string            `json:"to_address"`
	Value           string            `json:"value"`
	BlockNumber     string            `json:"block_number"`
	BlockTimestamp  string            `json:"block_timestamp"`
	ReceiptStatus   string            `json:"receipt_status"`
	TransactionFee  string            `json:"transaction_fee"`
	NativeTransfers []moralisTransfer `json:"native_transfers"`
}

type moralisHistory struct {
	Result []moralisTx `json:"result"`
}

func (m *moralisChain) FetchBalance(address string) (*models.ProviderBalance, error) {
	resp, err := m.client.client.R().
		SetQueryParam("chain", m.chainHex).
		SetResult(moralisBalance{}).
		Get(m.client.baseURL + "/" + address + "/balance")
	if err != nil {
		return nil, errors.Wrap(err, "moralis: запрос баланса")
	}
	if resp.IsError() {
		return nil, errors.Errorf("moralis: статус %d: %s", resp.StatusCode(), resp.String())
	}

	raw := resp.Result().(*moralisBalance)
	balance, err := weiToCoin(raw.Balance)
	if err != nil {
		return nil, errors.Wrapf(err, "moralis: некорректный баланс %q", raw.Balance)
	}

	return &models.ProviderBalance{
		Balance:            balance,
		ConfirmedBalance:   balance,
		UnconfirmedBalance: 0,
	}, nil
}

func (m *moralisChain) FetchTransactions(address string, limit int) ([]models.ChainTransaction, error) {
	resp, err := m.client.client.R().
		SetQueryParams(map[string]string{
			"chain": m.chainHex,
			"limit": fmt.Sprintf("%d", limit),
			"order": "DESC",
		}).
		SetResult(moralisHistory{}).
		Get(m.client.baseURL + "/wallets/" + address + "/history")
	if err != nil {
		return nil, errors.Wrap(err, "moralis: запрос истории")
	}
	if resp.IsError() {
		return nil, errors.Errorf("moralis: статус %d: %s", resp.StatusCode(), resp.String())
	}

	history := resp.Result().(*moralisHistory)
	txs := make([]models.ChainTransaction, 0, len(history.Result))
	for _, t := range history.Result {
		tx, err := normalizeMoralisTx(t, address)
		if err != nil {
			return nil, errors.Wrapf(err, "moralis: транзакция %s", t.Hash)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// normalizeMoralisTx предпочитает уже декодированный Moralis native-трансфер
// (direction + value_formatted); наивный разбор по to_address и сырому value
// остаётся только как запасной путь.
func normalizeMoralisTx(t moralisTx, address string) (models.ChainTransaction, error) {
	tx := models.ChainTransaction{
		TxHash:      t.Hash,
		FromAddress: strings.ToLower(t.FromAddress),
		ToAddress:   strings.ToLower(t.ToAddress),
		Status:      models.TxStatusPending,
	}

	if t.BlockNumber != "" {
		n, err := strconv.ParseInt(t.BlockNumber, 10, 64)
		if err != nil {
			return tx, errors.Wrapf(err, "некорректный block_number %q", t.BlockNumber)
		}
		tx.BlockNumber = n
		tx.Status = models.TxStatusConfirmed
		tx.Confirmations = 1
	}
	if t.BlockTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, t.BlockTimestamp)
		if err != nil {
			return tx, errors.Wrapf(err, "некорректный block_timestamp %q", t.BlockTimestamp)
		}
		tx.Timestamp = ts.UTC()
	}
	if t.TransactionFee != "" {
		fee, err := decimal.NewFromString(t.TransactionFee)
		if err == nil {
			tx.Fee = fee.InexactFloat64()
		}
	}

	if len(t.NativeTransfers) > 0 {
		nt := t.NativeTransfers[0]
		amount, err := decimal.NewFromString(nt.ValueFormatted)
		if err != nil {
			return tx, errors.Wrapf(err, "некорректный value_formatted %q", nt.ValueFormatted)
		}
		tx.Amount = amount.InexactFloat64()
		tx.FromAddress = strings.ToLower(nt.FromAddress)
		tx.ToAddress = strings.ToLower(nt.ToAddress)
		switch nt.Direction {
		case "receive":
			tx.Direction = models.DirectionIncoming
		case "send":
			tx.Direction = models.DirectionOutgoing
		default: // self и прочее
			tx.Direction = models.DirectionInternal
		}
		return tx, nil
	}

	amount, err := weiToCoin(t.Value)
	if err != nil {
		return tx, errors.Wrapf(err, "некорректный value %q", t.Value)
	}
	tx.Amount = amount
	if strings.EqualFold(t.ToAddress, address) {
		if strings.EqualFold(t.FromAddress, address) {
			tx.Direction = models.DirectionInternal
		} else {
			tx.Direction = models.DirectionIncoming
		}
	} else {
		tx.Direction = models.DirectionOutgoing
	}
	return tx, nil
}

// weiToCoin делит wei-строку на 10^18 без прохода через float64,
// чтобы не терять точность на больших значениях.
func weiToCoin(wei string) (float64, error) {
	if wei == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(wei)
	if err != nil {
		return 0, err
	}
	return d.Shift(-weiDecimals).InexactFloat64(), nil
}
