// Package cmd implements the folio CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Commands lists every folio subcommand with its group.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&depositCmd{}, "cash"},
	{&withdrawCmd{}, "cash"},
	{&buyCmd{}, "holdings"},
	{&priceCmd{}, "holdings"},
	{&holdingsCmd{}, "holdings"},
	{&snapshotCmd{}, "history"},
	{&metricsCmd{}, "history"},
	{&queryCmd{}, "state"},
	{&taxCmd{}, "tax"},
	{&topicCmd{}, "help"},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	StateFile   = flag.String("state-file", "folio.json", "Path to the portfolio state file (JSON)")
	ArchiveFile = flag.String("archive-file", "snapshots.msgpack", "Path to the snapshot archive (msgpack)")
	ConfigFile  = flag.String("config", "folio.toml", "Path to the configuration file (TOML)")
	Plain       = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")
)

var (
	cfg = config.NewDefaultConfig()
	log = zerolog.Nop()
)

// Configure sets the configuration and logger used by every command.
func Configure(c *config.Config, l zerolog.Logger) {
	cfg, log = c, l
}

// DecodeState loads the portfolio state file. A missing file gives an empty
// state in the configured base currency.
func DecodeState(opts ...folio.Option) (*folio.State, error) {
	opts = append([]folio.Option{folio.WithLogger(log)}, opts...)
	f, err := os.Open(*StateFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", *StateFile).Msg("state file does not exist, starting from an empty portfolio")
		return folio.NewState(cfg.BaseCurrency, opts...)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return folio.DecodeState(f, opts...)
}

// EncodeState writes the portfolio state file.
func EncodeState(s *folio.State) error {
	f, err := os.Create(*StateFile)
	if err != nil {
		return err
	}
	if err := folio.EncodeState(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeSnapshots reads the snapshot archive. A missing archive is empty.
func DecodeSnapshots() ([]*folio.Snapshot, error) {
	f, err := os.Open(*ArchiveFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return folio.DecodeSnapshots(f)
}

// AppendSnapshot appends a single snapshot to the archive.
func AppendSnapshot(s *folio.Snapshot) error {
	f, err := os.OpenFile(*ArchiveFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err := folio.EncodeSnapshots(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// saveState writes the state and reports the outcome as an exit status.
func saveState(s *folio.State) subcommands.ExitStatus {
	if err := EncodeState(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing state file %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it raw with -plain or
// when rendering fails.
func printMarkdown(md string) {
	if *Plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("rendering markdown")
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ratesFlag collects exchange rates given as FROMTO=rate, e.g. USDAUD=1.52.
type ratesFlag struct{ folio.RateTable }

func (r *ratesFlag) String() string {
	if r == nil || len(r.RateTable) == 0 {
		return ""
	}
	var pairs []string
	for k, v := range r.RateTable {
		pairs = append(pairs, k+"="+v.String())
	}
	return strings.Join(pairs, ",")
}

func (r *ratesFlag) Set(v string) error {
	pair, rate, ok := strings.Cut(v, "=")
	if !ok || len(pair) != 6 {
		return fmt.Errorf("invalid rate %q want FROMTO=rate, e.g. USDAUD=1.52", v)
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", v, err)
	}
	if !d.IsPositive() {
		return fmt.Errorf("invalid rate %q: must be positive", v)
	}
	if r.RateTable == nil {
		r.RateTable = folio.RateTable{}
	}
	r.RateTable.Set(strings.ToUpper(pair[:3]), strings.ToUpper(pair[3:]), d)
	return nil
}

// options returns the state options for the rates given on the command line.
func (r *ratesFlag) options() []folio.Option {
	if len(r.RateTable) == 0 {
		return nil
	}
	return []folio.Option{folio.WithExchangeRates(r.RateTable)}
}

// parseDecimal parses a positional decimal argument.
func parseDecimal(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return d, nil
}
