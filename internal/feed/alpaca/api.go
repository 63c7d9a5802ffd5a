package alpaca

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type alpacaApi struct {
	client *marketdata.Client
}

func newAlpacaApi(apiKey string, secret string, baseUrl string) *alpacaApi {
	return &alpacaApi{
		client: marketdata.NewClient(marketdata.ClientOpts{
			BaseURL:   baseUrl,
			APIKey:    apiKey,
			APISecret: secret,
		}),
	}
}

func (a *alpacaApi) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	return a.client.GetBars(symbol, req)
}

func (a *alpacaApi) GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error) {
	return a.client.GetCryptoBars(symbol, req)
}
