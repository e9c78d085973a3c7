package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// cashCmd is shared by the commands that move cash in or out of a currency
// balance.
type cashCmd struct {
	currency string
	reserved bool
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency of the cash movement. Defaults to the base currency.")
	f.BoolVar(&c.reserved, "r", false, "Move cash between available and reserved instead of in or out of the portfolio")
}

// run applies op to the amount given as the single positional argument and
// saves the state.
func (c *cashCmd) run(f *flag.FlagSet, op func(s *folio.State, currency string, amount decimal.Decimal) error) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one amount")
		return subcommands.ExitUsageError
	}
	amount, err := parseDecimal("amount", f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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
	if err := op(s, currency, amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if status := saveState(s); status != subcommands.ExitSuccess {
		return status
	}
	balance, _ := s.Cash(currency)
	fmt.Printf("%s: %s available, %s reserved\n",
		currency,
		folio.M(balance.Available, currency),
		folio.M(balance.Reserved, currency),
	)
	return subcommands.ExitSuccess
}

type depositCmd struct{ cashCmd }

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the portfolio" }
func (*depositCmd) Usage() string {
	return `folio deposit [-c <currency>] [-r] <amount>

  Adds cash to the available balance of a currency. With -r, moves the
  amount from reserved back to available instead.

Usage Examples:
$ folio deposit -c USD 1000
`
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	op := (*folio.State).AddCash
	if c.reserved {
		op = (*folio.State).ReleaseCash
	}
	return c.run(f, op)
}

type withdrawCmd struct{ cashCmd }

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the portfolio" }
func (*withdrawCmd) Usage() string {
	return `folio withdraw [-c <currency>] [-r] <amount>

  Removes cash from the available balance of a currency. With -r, moves the
  amount from available to reserved instead. Withdrawing more than is
  available fails and leaves the balance unchanged.
`
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	op := (*folio.State).WithdrawCash
	if c.reserved {
		op = (*folio.State).ReserveCash
	}
	return c.run(f, op)
}
