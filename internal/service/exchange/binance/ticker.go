package binance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/pkg/decimalx"
	"github.com/adshao/go-binance/v2"
	"github.com/samber/lo"
)

// 已下架或杠杆代币, 价格不再有参考意义
var delistedBase = []string{
	"BCC", "VEN", "PAX", "BCHABC", "BCHSV", "WAVES", "BTT", "USDS", "XMR", "NANO", "OMG",
	"MATIC", "FTM", "BUSD", "BEAM", "REN", "MCO", "BULL", "BEAR", "ETHBULL", "ETHBEAR",
	"BTCUP", "BTCDOWN", "ETHUP", "ETHDOWN", "BNBUP", "BNBDOWN", "XRPUP", "XRPDOWN",
	"ADAUP", "ADADOWN", "LINKUP", "LINKDOWN", "DOTUP", "DOTDOWN", "LTCUP", "LTCDOWN",
	"SRM", "ANT", "OCEAN", "AGIX", "RNDR", "MULTI", "UST", "EPX", "STRAT",
	"USDC", "FUSDT", "USDP",
}

var _ exchange.TickerService = (*TickerService)(nil)

type TickerService struct {
	cli      *binance.Client
	quote    string
	delisted map[string]struct{}
}

func NewTickerService(cli *binance.Client, quote string) *TickerService {
	return &TickerService{
		cli:   cli,
		quote: exchange.NormalizeSymbol(quote),
		delisted: lo.SliceToMap(delistedBase, func(item string) (string, struct{}) {
			return item, struct{}{}
		}),
	}
}

func (svc *TickerService) Name() string {
	return "binance"
}

func (svc *TickerService) Snapshot(ctx context.Context) (exchange.Snapshot, error) {
	prices, err := svc.cli.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance: list prices: %w", err)
	}
	return svc.toSnapshot(prices), nil
}

func (svc *TickerService) toSnapshot(prices []*binance.SymbolPrice) exchange.Snapshot {
	prices = lo.Filter(prices, func(item *binance.SymbolPrice, index int) bool {
		if item == nil || !exchange.HasQuote(item.Symbol, svc.quote) {
			return false
		}
		base, _ := exchange.SplitSymbol(item.Symbol, svc.quote)
		_, delisted := svc.delisted[base]
		return !delisted
	})

	snapshot := make(exchange.Snapshot, len(prices))
	for _, item := range prices {
		price, err := decimalx.ParsePositive(item.Price)
		if err != nil {
			slog.Debug("skip symbol with invalid price", "symbol", item.Symbol, "price", item.Price, "error", err)
			continue
		}
		snapshot[strings.ToUpper(item.Symbol)] = price
	}
	return snapshot
}
