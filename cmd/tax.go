package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/folio/cgt"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// taxCmd holds the flags for the 'tax' subcommand.
type taxCmd struct {
	file    string
	year    int
	losses  metadataFlag
	summary bool
	json    bool
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "Australian capital gains tax report" }
func (*taxCmd) Usage() string {
	return `folio tax [-f <file.jsonl>] [-y <tax year>] [-losses <year>=<amount>]... [-summary] [-json]

  Matches disposals against acquisition parcels first in first out and
  reports the capital gains of a tax year (1 July to 30 June, named after the
  year it ends in). Amounts are in AUD.

  The input has one JSON record per line:
    {"type":"acquire","symbol":"BHP","date":"2023-01-01","quantity":"100","unit_cost":"10"}
    {"type":"dispose","symbol":"BHP","date":"2024-03-01","quantity":"100","proceeds_per_unit":"15"}
  Foreign currency records carry "currency" and "fx_rate" (AUD per unit).
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	c.losses = metadataFlag{}
	f.StringVar(&c.file, "f", "cgt.jsonl", "CGT records file (JSONL)")
	f.IntVar(&c.year, "y", cgt.TaxYear(date.Today()), "Tax year, e.g. 2024 for 2023-07-01 to 2024-06-30")
	f.Var(c.losses, "losses", "Net capital losses carried into a tax year, as year=amount. Repeatable.")
	f.BoolVar(&c.summary, "summary", !cfg.CGT.ReportTransactions, "Omit the list of disposals")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON")
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	calc := cgt.NewCalculator(cgt.WithLogger(log))
	for y, amount := range c.losses {
		year, err := strconv.Atoi(y)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid tax year %q\n", y)
			return subcommands.ExitUsageError
		}
		v, err := parseDecimal("losses", amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := calc.SetCarriedForwardLosses(year, v); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()
	if err := replayRecords(calc, in); err != nil {
		fmt.Fprintf(os.Stderr, "Error in %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	report := calc.GenerateTaxReport(c.year, !c.summary)
	if c.json {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.TaxReportMarkdown(report))
	return subcommands.ExitSuccess
}

// cgtRecord is one line of the CGT records file.
type cgtRecord struct {
	Type string `json:"type"`
}

// replayRecords feeds acquisitions and disposals to calc in file order.
// Acquisitions may appear in any order but a disposal only sees the parcels
// recorded before it.
func replayRecords(calc *cgt.Calculator, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec cgtRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		switch rec.Type {
		case "acquire", "buy":
			var p cgt.Purchase
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := calc.AddAcquisition(p); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		case "dispose", "sell":
			var s cgt.Sale
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := calc.Dispose(s); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		default:
			return fmt.Errorf("line %d: unknown record type %q", line, rec.Type)
		}
	}
	return scanner.Err()
}
