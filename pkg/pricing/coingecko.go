package pricing

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"p2p_exchange_back/pkg/cache"
)

const historicalTTL = 24 * time.Hour

// CoinGeckoClient отдаёт текущую и историческую цену монеты в USD.
// Ответы кэшируются: текущие на 10 минут, исторические на сутки.
type CoinGeckoClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

func NewCoinGeckoClient(baseURL, apiKey string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &CoinGeckoClient{
		client:  resty.New().SetTimeout(15 * time.Second),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// CurrentPrice — текущая цена символа в USD.
func (c *CoinGeckoClient) CurrentPrice(symbol string) (float64, error) {
	id := currencyID(symbol)
	key := "current_" + id

	if rate, found := cache.GetCachedRate(key); found {
		return rate, nil
	}

	resp, err := c.client.R().
		SetHeader("x-cg-demo-api-key", c.apiKey).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": "usd",
		}).
		SetResult(map[string]map[string]float64{}).
		Get(c.baseURL + "/simple/price")
	if err != nil {
		return 0, errors.Wrap(err, "coingecko: запрос цены")
	}
	if resp.IsError() {
		return 0, errors.Errorf("coingecko: статус %d", resp.StatusCode())
	}

	data := *resp.Result().(*map[string]map[string]float64)
	price := data[id]["usd"]
	if price == 0 {
		return 0, errors.Errorf("coingecko: нет цены для %s", symbol)
	}

	cache.SetCachedRate(key, price)
	return price, nil
}

type historyResponse struct {
	MarketData struct {
		CurrentPrice map[string]float64 `json:"current_price"`
	} `json:"market_data"`
}

// HistoricalPrice — цена символа в USD на дату (точность CoinGecko — день).
func (c *CoinGeckoClient) HistoricalPrice(symbol string, at time.Time) (float64, error) {
	id := currencyID(symbol)
	date := at.UTC().Format("02-01-2006")
	key := "history_" + id + "_" + date

	if rate, found := cache.GetCachedRate(key); found {
		return rate, nil
	}

	resp, err := c.client.R().
		SetHeader("x-cg-demo-api-key", c.apiKey).
		SetHeader("Accept", "application/json").
		SetQueryParam("date", date).
		SetResult(historyResponse{}).
		Get(c.baseURL + "/coins/" + id + "/history")
	if err != nil {
		return 0, errors.Wrap(err, "coingecko: запрос исторической цены")
	}
	if resp.IsError() {
		return 0, errors.Errorf("coingecko: статус %d", resp.StatusCode())
	}

	data := resp.Result().(*historyResponse)
	price := data.MarketData.CurrentPrice["usd"]
	if price == 0 {
		return 0, errors.Errorf("coingecko: нет исторической цены для %s на %s", symbol, date)
	}

	cache.SetCachedRateTTL(key, price, historicalTTL)
	return price, nil
}

func currencyID(symbol string) string {
	switch strings.ToLower(symbol) {
	case "usdt":
		return "tether"
	case "btc":
		return "bitcoin"
	case "eth":
		return "ethereum"
	case "bnb":
		return "binancecoin"
	case "matic", "pol":
		return "matic-network"
	case "avax":
		return "avalanche-2"
	case "ftm":
		return "fantom"
	case "sol":
		return "solana"
	case "doge":
		return "dogecoin"
	case "trx":
		return "tron"
	case "xrp":
		return "ripple"
	case "ltc":
		return "litecoin"
	default:
		return strings.ToLower(symbol)
	}
}
