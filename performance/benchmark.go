package performance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BenchmarkComparison measures a portfolio against a benchmark over the
// same periods.
type BenchmarkComparison struct {
	Beta             decimal.Decimal `json:"beta"`
	Alpha            decimal.Decimal `json:"alpha"`          // annualized, CAPM residual
	TrackingError    decimal.Decimal `json:"tracking_error"` // annualized
	InformationRatio decimal.Decimal `json:"information_ratio"`
	UpCapture        decimal.Decimal `json:"up_capture"`   // over periods where the benchmark rose
	DownCapture      decimal.Decimal `json:"down_capture"` // over periods where the benchmark fell
	Correlation      decimal.Decimal `json:"correlation"`
}

// CompareBenchmark compares two return series of the same length and period.
// Fewer than two returns give a zero comparison.
func (c *Calculator) CompareBenchmark(portfolio, benchmark ReturnSeries) (BenchmarkComparison, error) {
	if portfolio.Len() != benchmark.Len() {
		return BenchmarkComparison{}, fmt.Errorf("%w: portfolio has %d returns, benchmark %d", ErrLengthMismatch, portfolio.Len(), benchmark.Len())
	}
	if portfolio.Period != benchmark.Period {
		return BenchmarkComparison{}, fmt.Errorf("%w: portfolio is %s, benchmark %s", ErrValidation, portfolio.Period, benchmark.Period)
	}
	if portfolio.Len() < 2 {
		return BenchmarkComparison{}, nil
	}
	p, b := portfolio.Values(), benchmark.Values()
	ppy := portfolio.periodsPerYear()

	cov := sampleCovariance(p, b)
	varB := sampleVariance(b)
	beta := ratio(cov, varB)

	annP := annualizedReturn(p, ppy)
	annB := annualizedReturn(b, ppy)
	alpha := annP.Sub(c.riskFree.Add(beta.Mul(annB.Sub(c.riskFree))))

	excess := make([]decimal.Decimal, len(p))
	for i := range p {
		excess[i] = p[i].Sub(b[i])
	}
	te := volatility(excess, ppy)

	var upP, upB, downP, downB []decimal.Decimal
	for i := range b {
		switch b[i].Sign() {
		case 1:
			upP, upB = append(upP, p[i]), append(upB, b[i])
		case -1:
			downP, downB = append(downP, p[i]), append(downB, b[i])
		}
	}

	return BenchmarkComparison{
		Beta:             round4(beta),
		Alpha:            round4(alpha),
		TrackingError:    round4(te),
		InformationRatio: round4(ratio(annP.Sub(annB), te)),
		UpCapture:        round4(ratio(mean(upP), mean(upB))),
		DownCapture:      round4(ratio(mean(downP), mean(downB))),
		Correlation:      round4(ratio(cov, sqrt(sampleVariance(p)).Mul(sqrt(varB)))),
	}, nil
}
