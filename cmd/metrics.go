package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/performance"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// metricsCmd holds the flags for the 'metrics' subcommand.
type metricsCmd struct {
	period    string
	benchmark string
	trades    string
	json      bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "risk and return metrics of the value history" }
func (*metricsCmd) Usage() string {
	return `folio metrics [-period <period>] [-benchmark <file.csv>] [-trades <r1,r2,...>] [-json]

  Computes returns, volatility, drawdowns and risk-adjusted ratios from the
  total values recorded by 'snapshot'. A benchmark is a CSV file of
  date,value rows. Each snapshot date takes the benchmark value of that day or
  of the closest day before it.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period between two values (day, week, month, quarter, year). Defaults to the configured one.")
	f.StringVar(&c.benchmark, "benchmark", "", "CSV file of benchmark values (date,value)")
	f.StringVar(&c.trades, "trades", "", "Comma separated returns of closed trades, e.g. 0.12,-0.05")
	f.BoolVar(&c.json, "json", false, "Print the metrics as JSON")
}

func (c *metricsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := performance.Input{Period: cfg.Performance.Period}
	if c.period != "" {
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		in.Period = p
	}
	for _, r := range strings.Split(c.trades, ",") {
		if r = strings.TrimSpace(r); r == "" {
			continue
		}
		v, err := parseDecimal("trade return", r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		in.TradeReturns = append(in.TradeReturns, v)
	}

	snaps, err := DecodeSnapshots()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading archive %q: %v\n", *ArchiveFile, err)
		return subcommands.ExitFailure
	}
	in.Values = folio.ValueHistory(snaps)

	if c.benchmark != "" {
		bench, err := decodeBenchmark(c.benchmark)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading benchmark %q: %v\n", c.benchmark, err)
			return subcommands.ExitFailure
		}
		if in.Benchmark, err = alignBenchmark(in.Values, bench); err != nil {
			fmt.Fprintf(os.Stderr, "Error aligning benchmark %q: %v\n", c.benchmark, err)
			return subcommands.ExitFailure
		}
	}

	calc := performance.NewCalculator(cfg.Performance.CalculatorOptions()...)
	m, err := calc.Metrics(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing metrics: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("snapshots", len(snaps)).Int("periods", m.Periods).Msg("metrics computed")

	if c.json {
		if err := printJSON(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.MetricsMarkdown(m))
	return subcommands.ExitSuccess
}

// decodeBenchmark reads date,value rows. A first row that does not parse as a
// date is taken as a header.
func decodeBenchmark(path string) (*date.History[decimal.Decimal], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBenchmark(f)
}

func readBenchmark(r io.Reader) (*date.History[decimal.Decimal], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	h := date.NewHistory[decimal.Decimal](0)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return h, nil
		}
		if err != nil {
			return nil, err
		}
		on, err := date.Parse(rec[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q: %w", line, rec[1], err)
		}
		h.Append(on, v)
	}
}

// alignBenchmark samples bench on the days of values, carrying the last known
// benchmark value over days it has none.
func alignBenchmark(values, bench *date.History[decimal.Decimal]) (*date.History[decimal.Decimal], error) {
	aligned := date.NewHistory[decimal.Decimal](values.Len())
	carried := 0
	for day := range values.Values() {
		v, ok := bench.Get(day)
		if !ok {
			if v, ok = bench.ValueAsOf(day); !ok {
				return nil, fmt.Errorf("no benchmark value on or before %s", day)
			}
			carried++
		}
		aligned.Append(day, v)
	}
	if carried > 0 {
		log.Debug().Int("days", carried).Msg("benchmark values carried from earlier days")
	}
	return aligned, nil
}
