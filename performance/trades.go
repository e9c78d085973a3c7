package performance

import "github.com/shopspring/decimal"

// TradeStatistics summarizes the returns of closed trades.
type TradeStatistics struct {
	Total     int `json:"total"`
	Winners   int `json:"winners"`
	Losers    int `json:"losers"`
	Breakeven int `json:"breakeven"`

	WinRate  decimal.Decimal `json:"win_rate"`  // fraction of trades with a positive return
	LossRate decimal.Decimal `json:"loss_rate"` // fraction of trades with a negative return

	AverageWin  decimal.Decimal `json:"average_win"`
	AverageLoss decimal.Decimal `json:"average_loss"` // negative
	LargestWin  decimal.Decimal `json:"largest_win"`
	LargestLoss decimal.Decimal `json:"largest_loss"` // most negative

	// ProfitFactor is gross profit / |gross loss|, 0 without losses.
	ProfitFactor decimal.Decimal `json:"profit_factor"`
	// Expectancy is WinRate*AverageWin + LossRate*AverageLoss.
	Expectancy decimal.Decimal `json:"expectancy"`
}

// TradeStatistics partitions trade returns into winners, losers and
// breakeven trades.
func (c *Calculator) TradeStatistics(tradeReturns []decimal.Decimal) TradeStatistics {
	var ts TradeStatistics
	ts.Total = len(tradeReturns)
	if ts.Total == 0 {
		return ts
	}
	var wins, losses []decimal.Decimal
	for _, r := range tradeReturns {
		switch r.Sign() {
		case 1:
			wins = append(wins, r)
			if r.GreaterThan(ts.LargestWin) {
				ts.LargestWin = r
			}
		case -1:
			losses = append(losses, r)
			if r.LessThan(ts.LargestLoss) {
				ts.LargestLoss = r
			}
		default:
			ts.Breakeven++
		}
	}
	ts.Winners, ts.Losers = len(wins), len(losses)

	total := decimal.NewFromInt(int64(ts.Total))
	winRate := decimal.NewFromInt(int64(ts.Winners)).Div(total)
	lossRate := decimal.NewFromInt(int64(ts.Losers)).Div(total)
	avgWin, avgLoss := mean(wins), mean(losses)

	ts.WinRate = round4(winRate)
	ts.LossRate = round4(lossRate)
	ts.AverageWin = round4(avgWin)
	ts.AverageLoss = round4(avgLoss)
	ts.LargestWin = round4(ts.LargestWin)
	ts.LargestLoss = round4(ts.LargestLoss)
	ts.ProfitFactor = round4(ratio(sum(wins), sum(losses).Abs()))
	ts.Expectancy = round4(winRate.Mul(avgWin).Add(lossRate.Mul(avgLoss)))
	return ts
}
