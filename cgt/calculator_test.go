package cgt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) date.Date { return date.MustParse(s) }

// sequentialIDs makes IDs predictable in tests.
func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func mustBuy(t *testing.T, c *Calculator, symbol, on, qty, cost string) Acquisition {
	t.Helper()
	a, err := c.AddAcquisition(Purchase{Symbol: symbol, Date: day(on), Quantity: d(qty), UnitCost: d(cost)})
	require.NoError(t, err)
	return a
}

func mustSell(t *testing.T, c *Calculator, symbol, on, qty, price string) Event {
	t.Helper()
	e, err := c.Dispose(Sale{Symbol: symbol, Date: day(on), Quantity: d(qty), ProceedsPerUnit: d(price)})
	require.NoError(t, err)
	return e
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s got %s", want, got}, msgAndArgs...)...)
}

func TestDispose_DiscountAfter425Days(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "BHP", "2023-01-01", "100", "10.00")
	e := mustSell(t, c, "BHP", "2024-03-01", "100", "15.00")

	assertDecimal(t, "1500", e.Proceeds)
	assertDecimal(t, "1000", e.CostBase)
	assertDecimal(t, "500", e.GrossGain)
	assert.Equal(t, 425, e.HoldingDays)
	assert.True(t, e.DiscountEligible)
	assert.Equal(t, MethodDiscount, e.Method)
	assertDecimal(t, "250", e.Discount)
	assertDecimal(t, "250", e.NetGain)
	assert.Equal(t, 2024, e.TaxYear)

	assert.Empty(t, c.Parcels("BHP"))
	assert.Empty(t, c.Symbols())
	assert.Len(t, c.Events(), 1)
}

func TestEvents_ReturnCopies(t *testing.T) {
	c := NewCalculator(sequentialIDs())
	mustBuy(t, c, "BHP", "2023-01-01", "10", "40")
	sold := mustSell(t, c, "BHP", "2023-03-01", "5", "45")

	sold.Parcels[0].Quantity = d("999")
	events := c.Events()
	events[0].Parcels[0].Quantity = d("999")
	events[0].Parcels[0].Acquired = day("2020-01-01")
	inYear := c.EventsInYear(2023)
	require.Len(t, inYear, 1)
	inYear[0].Parcels[0].Quantity = d("999")

	stored := c.Events()
	require.Len(t, stored[0].Parcels, 1)
	assertDecimal(t, "5", stored[0].Parcels[0].Quantity)
	r := c.GenerateTaxReport(2023, true)
	require.Len(t, r.Transactions, 1)
	assert.Equal(t, day("2023-01-01"), r.Transactions[0].Acquired)
}

func TestDispose_FIFOSplit(t *testing.T) {
	c := NewCalculator(sequentialIDs())
	first := mustBuy(t, c, "CBA", "2023-01-01", "60", "10")
	second, err := c.AddAcquisition(Purchase{
		Symbol: "CBA", Date: day("2023-06-01"), Quantity: d("60"), UnitCost: d("12"), IncidentalCosts: d("6"),
	})
	require.NoError(t, err)

	e := mustSell(t, c, "CBA", "2024-01-01", "100", "13")
	require.Len(t, e.Parcels, 2)
	assert.Equal(t, first.ID, e.Parcels[0].AcquisitionID)
	assertDecimal(t, "60", e.Parcels[0].Quantity)
	assert.Equal(t, 365, e.Parcels[0].HoldingDays)
	assert.Equal(t, second.ID, e.Parcels[1].AcquisitionID)
	assertDecimal(t, "40", e.Parcels[1].Quantity)
	assertDecimal(t, "484", e.Parcels[1].CostBase) // 480 + 4 incidental
	assert.Equal(t, 214, e.Parcels[1].HoldingDays)

	// (60*365 + 40*214) / 100 = 304.6
	assert.Equal(t, 304, e.HoldingDays)
	assert.False(t, e.DiscountEligible)
	assertDecimal(t, "1084", e.CostBase)
	assertDecimal(t, "216", e.GrossGain)

	left := c.Parcels("CBA")
	require.Len(t, left, 1)
	assert.Equal(t, second.ID, left[0].ID)
	assert.Equal(t, day("2023-06-01"), left[0].Date)
	assertDecimal(t, "20", left[0].Quantity)
	assertDecimal(t, "240", left[0].TotalCost)
	assertDecimal(t, "2", left[0].IncidentalCosts)
	assertDecimal(t, "12.1", left[0].CostBasePerUnit())
	assertDecimal(t, "20", c.Held("CBA"))
}

func TestDispose_WeightedHoldingPeriodTruncates(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "WES", "2023-06-23", "1", "10")
	mustBuy(t, c, "WES", "2023-07-02", "9", "10")

	// (1*374 + 9*365) / 10 = 365.9, which is not more than 365 days.
	e := mustSell(t, c, "WES", "2024-07-01", "10", "20")
	assert.Equal(t, 365, e.HoldingDays)
	assert.False(t, e.DiscountEligible)
	assert.Equal(t, MethodOther, e.Method)
	assertDecimal(t, "100", e.NetGain)
	assert.Equal(t, 2025, e.TaxYear)
}

func TestDispose_Loss(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "XRO", "2020-01-01", "10", "100")
	e, err := c.Dispose(Sale{Symbol: "XRO", Date: day("2023-03-01"), Quantity: d("10"), ProceedsPerUnit: d("80"), SellingCosts: d("19.95")})
	require.NoError(t, err)
	assertDecimal(t, "-219.95", e.GrossGain)
	assert.True(t, e.IsLoss())
	assert.False(t, e.DiscountEligible, "losses are never discounted")
	assert.True(t, e.Discount.IsZero())
	assertDecimal(t, "-219.95", e.NetGain)
	assertDecimal(t, "780.05", e.NetProceeds)
}

func TestDispose_Rejections(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "NAB", "2023-01-01", "10", "30")
	before := c.Parcels("NAB")

	tests := []struct {
		name string
		sale Sale
		want error
	}{
		{"more than held", Sale{Symbol: "NAB", Date: day("2023-05-01"), Quantity: d("10.5"), ProceedsPerUnit: d("1")}, ErrInsufficientParcels},
		{"unknown symbol", Sale{Symbol: "ANZ", Date: day("2023-05-01"), Quantity: d("1"), ProceedsPerUnit: d("1")}, ErrInsufficientParcels},
		{"missing rate", Sale{Symbol: "NAB", Date: day("2023-05-01"), Quantity: d("1"), ProceedsPerUnit: d("1"), Currency: "USD"}, ErrMissingRate},
		{"zero quantity", Sale{Symbol: "NAB", Date: day("2023-05-01"), ProceedsPerUnit: d("1")}, ErrValidation},
		{"negative proceeds", Sale{Symbol: "NAB", Date: day("2023-05-01"), Quantity: d("1"), ProceedsPerUnit: d("-1")}, ErrValidation},
		{"negative costs", Sale{Symbol: "NAB", Date: day("2023-05-01"), Quantity: d("1"), ProceedsPerUnit: d("1"), SellingCosts: d("-1")}, ErrValidation},
		{"no date", Sale{Symbol: "NAB", Quantity: d("1"), ProceedsPerUnit: d("1")}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Dispose(tt.sale)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, before, c.Parcels("NAB"), "parcels are unchanged")
			assert.Empty(t, c.Events())
		})
	}
}

func TestAddAcquisition(t *testing.T) {
	c := NewCalculator(sequentialIDs())
	mustBuy(t, c, "VAS", "2023-05-01", "1", "1")
	mustBuy(t, c, "VAS", "2023-01-01", "2", "1")
	mustBuy(t, c, "VAS", "2023-05-01", "3", "1")

	got := c.Parcels("VAS")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"id-2", "id-1", "id-3"}, []string{got[0].ID, got[1].ID, got[2].ID})

	t.Run("foreign currency", func(t *testing.T) {
		a, err := c.AddAcquisition(Purchase{Symbol: "AAPL", Date: day("2023-02-01"), Quantity: d("10"), UnitCost: d("150"), Currency: "USD", FXRate: d("1.5"), IncidentalCosts: d("10")})
		require.NoError(t, err)
		assertDecimal(t, "2250", a.TotalCost)
		assertDecimal(t, "226", a.CostBasePerUnit())
		assert.Equal(t, "USD", a.Currency)

		_, err = c.AddAcquisition(Purchase{Symbol: "AAPL", Date: day("2023-02-01"), Quantity: d("10"), UnitCost: d("150"), Currency: "USD"})
		assert.ErrorIs(t, err, ErrMissingRate)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, p := range []Purchase{
			{Date: day("2023-01-01"), Quantity: d("1")},
			{Symbol: "X", Quantity: d("1")},
			{Symbol: "X", Date: day("2023-01-01"), Quantity: d("0")},
			{Symbol: "X", Date: day("2023-01-01"), Quantity: d("1"), UnitCost: d("-1")},
			{Symbol: "X", Date: day("2023-01-01"), Quantity: d("1"), IncidentalCosts: d("-1")},
		} {
			_, err := c.AddAcquisition(p)
			assert.ErrorIs(t, err, ErrValidation, "%+v", p)
		}
		assert.Equal(t, []string{"AAPL", "VAS"}, c.Symbols())
	})
}

func TestTaxYear(t *testing.T) {
	tests := []struct {
		on   string
		want int
	}{
		{"2023-06-30", 2023},
		{"2023-07-01", 2024},
		{"2023-12-31", 2024},
		{"2024-01-01", 2024},
		{"2024-06-30", 2024},
	}
	for _, tt := range tests {
		t.Run(tt.on, func(t *testing.T) {
			assert.Equal(t, tt.want, TaxYear(day(tt.on)))
		})
	}

	r := TaxYearRange(2024)
	assert.Equal(t, date.New(2023, time.July, 1), r.From)
	assert.Equal(t, date.New(2024, time.June, 30), r.To)
	assert.Equal(t, 366, r.Days())
}

func TestTaxYearSummary_LossOrder(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "A", "2023-08-01", "10", "100")
	mustBuy(t, c, "B", "2022-01-03", "20", "100")
	mustBuy(t, c, "C", "2023-08-01", "10", "300")
	mustSell(t, c, "A", "2023-09-01", "10", "200") // +1000, short term
	mustSell(t, c, "B", "2023-10-02", "20", "200") // +2000, 637 days
	mustSell(t, c, "C", "2023-11-01", "10", "150") // -1500
	require.NoError(t, c.SetCarriedForwardLosses(2024, d("1000")))

	s := c.TaxYearSummary(2024)
	assert.Equal(t, 3, s.Events)
	assert.Equal(t, TaxYearRange(2024), s.Period)
	assertDecimal(t, "2000", s.DiscountableGains)
	assertDecimal(t, "1000", s.NonDiscountableGains)
	assertDecimal(t, "3000", s.TotalGains)
	assertDecimal(t, "1500", s.TotalLosses)
	assertDecimal(t, "1000", s.CarriedForwardIn)
	assertDecimal(t, "1000", s.LossesAppliedNonDiscounted)
	assertDecimal(t, "1500", s.LossesAppliedDiscounted)
	assertDecimal(t, "2500", s.LossesApplied)
	assertDecimal(t, "0", s.LossesCarriedForward)
	assertDecimal(t, "250", s.DiscountApplied)
	assertDecimal(t, "250", s.NetCapitalGain)

	assert.ErrorIs(t, c.SetCarriedForwardLosses(2024, d("-1")), ErrValidation)
}

func TestTaxYearSummary_CarryForward(t *testing.T) {
	c := NewCalculator()
	mustBuy(t, c, "A", "2023-08-01", "10", "100")
	mustSell(t, c, "A", "2023-09-01", "10", "50") // -500 in 2024
	mustBuy(t, c, "B", "2025-08-01", "10", "100")
	mustSell(t, c, "B", "2025-09-01", "10", "130") // +300 in 2026

	y24 := c.TaxYearSummary(2024)
	assertDecimal(t, "500", y24.LossesCarriedForward)
	assert.True(t, y24.NetCapitalGain.IsZero())

	y25 := c.TaxYearSummary(2025)
	assert.Zero(t, y25.Events)
	assertDecimal(t, "500", y25.CarriedForwardIn)
	assertDecimal(t, "500", y25.LossesCarriedForward)

	y26 := c.TaxYearSummary(2026)
	assertDecimal(t, "500", y26.CarriedForwardIn)
	assertDecimal(t, "300", y26.LossesApplied)
	assertDecimal(t, "200", y26.LossesCarriedForward)
	assert.True(t, y26.NetCapitalGain.IsZero())

	// Opening losses override what was carried.
	require.NoError(t, c.SetCarriedForwardLosses(2026, d("100")))
	y26 = c.TaxYearSummary(2026)
	assertDecimal(t, "100", y26.CarriedForwardIn)
	assertDecimal(t, "200", y26.NetCapitalGain)

	before := c.TaxYearSummary(2020)
	assert.True(t, before.CarriedForwardIn.IsZero())
}

func TestTaxYearSummary_LossesAreConserved(t *testing.T) {
	type trade struct{ symbol, buy, sell, qty, cost, price string }
	scenarios := [][]trade{
		{{"A", "2021-01-01", "2023-08-01", "10", "10", "30"}, {"B", "2023-07-05", "2023-08-01", "5", "40", "10"}},
		{{"A", "2023-07-02", "2023-09-01", "10", "10", "9"}, {"B", "2023-07-05", "2023-12-01", "5", "40", "10"}},
		{{"A", "2021-01-01", "2024-02-01", "7", "10", "11"}, {"B", "2023-07-05", "2024-03-01", "5", "40", "41"}, {"C", "2023-07-05", "2024-03-01", "3", "40", "1"}},
		{{"A", "2020-01-01", "2023-08-01", "1", "1000", "1"}},
	}
	for i, trades := range scenarios {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			c := NewCalculator()
			require.NoError(t, c.SetCarriedForwardLosses(2024, d("123.45")))
			for _, tr := range trades {
				mustBuy(t, c, tr.symbol, tr.buy, tr.qty, tr.cost)
				mustSell(t, c, tr.symbol, tr.sell, tr.qty, tr.price)
			}
			s := c.TaxYearSummary(2024)
			assert.True(t, s.LossesApplied.Add(s.LossesCarriedForward).Equal(s.TotalLosses.Add(s.CarriedForwardIn)),
				"applied %s + carried %s != losses %s + brought %s", s.LossesApplied, s.LossesCarriedForward, s.TotalLosses, s.CarriedForwardIn)
			assert.False(t, s.NetCapitalGain.IsNegative())
			assert.False(t, s.LossesCarriedForward.IsNegative())
		})
	}
}

func TestGenerateTaxReport(t *testing.T) {
	c := NewCalculator(sequentialIDs())
	mustBuy(t, c, "BHP", "2023-01-01", "100", "10")
	mustBuy(t, c, "CSL", "2023-08-01", "5", "280")
	mustSell(t, c, "BHP", "2024-03-01", "100", "15")
	mustSell(t, c, "CSL", "2024-02-01", "5", "300")

	r := c.GenerateTaxReport(2024, false)
	assert.Nil(t, r.Transactions)
	assert.Equal(t, day("2023-07-01"), r.From)
	assert.Equal(t, day("2024-06-30"), r.To)
	assertDecimal(t, "100", r.Summary.NonDiscountableGains)
	assertDecimal(t, "500", r.Summary.DiscountableGains)
	assertDecimal(t, "250", r.Summary.DiscountApplied)
	assertDecimal(t, "350", r.Summary.NetCapitalGain)

	r = c.GenerateTaxReport(2024, true)
	require.Len(t, r.Transactions, 2)
	csl, bhp := r.Transactions[0], r.Transactions[1]
	assert.Equal(t, "CSL", csl.Symbol, "lines are in date order")
	assert.Equal(t, "id-4", csl.EventID)
	assert.Equal(t, MethodOther, csl.Method)
	assert.Equal(t, day("2023-01-01"), bhp.Acquired)
	assert.Equal(t, day("2024-03-01"), bhp.Disposed)
	assert.Equal(t, 425, bhp.HoldingDays)
	assert.True(t, bhp.DiscountEligible)
	assertDecimal(t, "250", bhp.NetGain)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"method":"discount"`)
	assert.Contains(t, string(data), `"from":"2023-07-01"`)
	assert.Contains(t, string(data), `"net_capital_gain":"350"`)

	assert.Empty(t, c.GenerateTaxReport(2023, true).Transactions)
}
