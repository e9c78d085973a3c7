package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	symbol   string
	quantity string
	price    string
	currency string
	class    string
	pay      bool
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "add a position or a lot to an existing one" }
func (*buyCmd) Usage() string {
	return `folio buy -s <symbol> -q <quantity> -p <price> [-c <currency>] [-class <asset class>] [-pay]

  Adds a lot to a holding. Lots of the same symbol are merged at their
  average cost. A negative quantity records a short position. With -pay,
  the cost is withdrawn from the available cash of the holding currency.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the security")
	f.StringVar(&c.quantity, "q", "", "Quantity, negative for a short position")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.currency, "c", "", "Currency of the price. Defaults to the base currency.")
	f.StringVar(&c.class, "class", string(folio.AssetClassEquity), "Asset class (equity, etf, bond, crypto, commodity, cash, other)")
	f.BoolVar(&c.pay, "pay", false, "Pay for the lot from available cash")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -s, -q and -p are required")
		return subcommands.ExitUsageError
	}
	qty, err := folio.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	class, err := folio.ParseAssetClass(c.class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing asset class: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := DecodeState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	currency := strings.ToUpper(c.currency)
	if currency == "" {
		currency = s.BaseCurrency()
	}
	price, err := folio.ParseMoney(c.price, currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	h, err := folio.NewHolding(strings.ToUpper(c.symbol), qty, price, class, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	// pay first, so that a failed payment leaves the holdings untouched.
	if c.pay && qty.IsPositive() {
		if err := s.WithdrawCash(currency, h.CostBasis().Value()); err != nil {
			fmt.Fprintf(os.Stderr, "Error paying for %s: %v\n", h.Symbol, err)
			return subcommands.ExitFailure
		}
	}
	if err := s.AddHolding(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := saveState(s); status != subcommands.ExitSuccess {
		return status
	}
	if merged, ok := s.Holding(h.Symbol); ok {
		fmt.Printf("%s: %s at %s average cost\n", merged.Symbol, merged.Quantity, merged.AvgCost)
	} else {
		fmt.Printf("%s: position closed\n", h.Symbol)
	}
	return subcommands.ExitSuccess
}

// priceCmd holds the flags for the 'price' subcommand.
type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "update the market price of holdings" }
func (*priceCmd) Usage() string {
	return `folio price <symbol>=<price>...

  Updates the current price of each listed holding, in the holding currency.
  Symbols that are not held are reported and skipped.

Usage Examples:
$ folio price AAPL=191.2 BHP=45.10
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one <symbol>=<price>")
		return subcommands.ExitUsageError
	}
	prices := folio.StaticPrices{}
	for _, arg := range f.Args() {
		sym, v, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid price %q want <symbol>=<price>\n", arg)
			return subcommands.ExitUsageError
		}
		p, err := parseDecimal("price", v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		prices[strings.ToUpper(sym)] = p
	}

	s, err := DecodeState(folio.WithPrices(prices))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	updated := s.UpdateAllPrices()
	for _, sym := range slices.Sorted(maps.Keys(prices)) {
		if !updated[sym] {
			fmt.Fprintf(os.Stderr, "Warning: %s is not held or has an invalid price, skipped\n", sym)
		}
	}
	return saveState(s)
}

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	rates ratesFlag
	json  bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display holdings, cash and allocations" }
func (*holdingsCmd) Usage() string {
	return `folio holdings [-fx <FROMTO=rate>]... [-json]

  Displays positions, cash balances, totals and the allocation by asset class
  and currency. Values in other currencies are converted to the base currency
  with the rates given by -fx.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.rates, "fx", "Exchange rate as FROMTO=rate, e.g. USDAUD=1.52. Repeatable.")
	f.BoolVar(&c.json, "json", false, "Print the state document as JSON")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := DecodeState(c.rates.options()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	if c.json {
		if err := folio.EncodeState(os.Stdout, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.HoldingsMarkdown(s))
	return subcommands.ExitSuccess
}
