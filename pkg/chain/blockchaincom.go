package chain

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"p2p_exchange_back/models"
)

const satoshisPerBTC = 1e8

// BlockchainComClient — эксплорер Blockchain.com для Bitcoin.
// Балансы приходят в сатоши, делим на 1e8.
type BlockchainComClient struct {
	client  *resty.Client
	baseURL string
}

func NewBlockchainComClient(baseURL string) *BlockchainComClient {
	if baseURL == "" {
		baseURL = "https://blockchain.info"
	}
	return &BlockchainComClient{
		client:  resty.New().SetTimeout(30 * time.Second),
		baseURL: baseURL,
	}
}

type btcBalanceEntry struct {
	FinalBalance  int64 `json:"final_balance"`
	TotalReceived int64 `json:"total_received"`
	TotalSent     int64 `json:"total_sent"`
	NTx           int64 `json:"n_tx"`
}

type btcOutput struct {
	Addr  string `json:"addr"`
	Value int64  `json:"value"`
}

type btcInput struct {
	PrevOut *btcOutput `json:"prev_out"`
}

type btcTx struct {
	Hash        string      `json:"hash"`
	BlockHeight int64       `json:"block_height"`
	Time        int64       `json:"time"`
	Fee         int64       `json:"fee"`
	Inputs      []btcInput  `json:"inputs"`
	Out         []btcOutput `json:"out"`
}

type rawAddrResponse struct {
	Txs []btcTx `json:"txs"`
}

func (c *BlockchainComClient) FetchBalance(address string) (*models.ProviderBalance, error) {
	resp, err := c.client.R().
		SetQueryParam("active", address).
		SetResult(map[string]btcBalanceEntry{}).
		Get(c.baseURL + "/balance")
	if err != nil {
		return nil, errors.Wrap(err, "blockchain.com: запрос баланса")
	}
	if resp.IsError() {
		return nil, errors.Errorf("blockchain.com: статус %d", resp.StatusCode())
	}

	data := *resp.Result().(*map[string]btcBalanceEntry)
	entry, ok := data[address]
	if !ok {
		return nil, errors.Errorf("blockchain.com: адрес %s отсутствует в ответе", address)
	}

	received := float64(entry.TotalReceived) / satoshisPerBTC
	sent := float64(entry.TotalSent) / satoshisPerBTC
	txCount := entry.NTx
	balance := float64(entry.FinalBalance) / satoshisPerBTC

	return &models.ProviderBalance{
		Balance:            balance,
		ConfirmedBalance:   balance,
		UnconfirmedBalance: 0,
		TotalReceived:      &received,
		TotalSent:          &sent,
		TxCount:            &txCount,
	}, nil
}

func (c *BlockchainComClient) FetchTransactions(address string, limit int) ([]models.ChainTransaction, error) {
	resp, err := c.client.R().
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(rawAddrResponse{}).
		Get(c.baseURL + "/rawaddr/" + address)
	if err != nil {
		return nil, errors.Wrap(err, "blockchain.com: запрос транзакций")
	}
	if resp.IsError() {
		return nil, errors.Errorf("blockchain.com: статус %d", resp.StatusCode())
	}

	raw := resp.Result().(*rawAddrResponse)
	txs := make([]models.ChainTransaction, 0, len(raw.Txs))
	for _, t := range raw.Txs {
		txs = append(txs, normalizeBTCTx(t, address))
	}
	return txs, nil
}

// normalizeBTCTx классифицирует направление UTXO-транзакции:
//   - адрес только среди выходов  -> incoming, сумма выходов на адрес;
//   - адрес среди входов          -> outgoing, сумма чужих выходов;
//   - ни то ни другое (self-send) -> internal, сумма всех выходов.
func normalizeBTCTx(t btcTx, address string) models.ChainTransaction {
	inInputs := false
	firstInputAddr := ""
	for _, in := range t.Inputs {
		if in.PrevOut == nil {
			continue
		}
		if firstInputAddr == "" {
			firstInputAddr = in.PrevOut.Addr
		}
		if in.PrevOut.Addr == address {
			inInputs = true
		}
	}

	var toWallet, toOthers, totalOut int64
	firstForeignOut := ""
	for _, out := range t.Out {
		totalOut += out.Value
		if out.Addr == address {
			toWallet += out.Value
		} else {
			toOthers += out.Value
			if firstForeignOut == "" && out.Addr != "" {
				firstForeignOut = out.Addr
			}
		}
	}

	tx := models.ChainTransaction{
		TxHash:      t.Hash,
		BlockNumber: t.BlockHeight,
		Timestamp:   time.Unix(t.Time, 0).UTC(),
		Fee:         float64(t.Fee) / satoshisPerBTC,
		Status:      models.TxStatusPending,
	}
	if t.BlockHeight > 0 {
		tx.Status = models.TxStatusConfirmed
		tx.Confirmations = 1
	}

	switch {
	case !inInputs && toWallet > 0:
		tx.Direction = models.DirectionIncoming
		tx.Amount = float64(toWallet) / satoshisPerBTC
		tx.FromAddress = firstInputAddr
		tx.ToAddress = address
	case inInputs:
		tx.Direction = models.DirectionOutgoing
		tx.Amount = float64(toOthers) / satoshisPerBTC
		tx.FromAddress = address
		tx.ToAddress = firstForeignOut
	default:
		// явного контрагента нет, получателя не выдумываем
		tx.Direction = models.DirectionInternal
		tx.Amount = float64(totalOut) / satoshisPerBTC
		tx.FromAddress = firstInputAddr
	}
	return tx
}
