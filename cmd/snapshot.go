package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// metadataFlag collects key=value snapshot metadata.
type metadataFlag map[string]string

func (m metadataFlag) String() string {
	var pairs []string
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (m metadataFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid metadata %q want key=value", v)
	}
	m[key] = value
	return nil
}

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	rates    ratesFlag
	metadata metadataFlag
	history  bool
	json     bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record the current portfolio value in the archive" }
func (*snapshotCmd) Usage() string {
	return `folio snapshot [-fx <FROMTO=rate>]... [-m <key=value>]... [-history] [-json]

  Captures holdings, cash and totals in the base currency and appends them to
  the snapshot archive. The archive is the value history used by 'metrics'.
  With -history, lists the archived snapshots instead. With -json, prints the
  recorded snapshot as JSON.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	c.metadata = metadataFlag{}
	f.Var(&c.rates, "fx", "Exchange rate as FROMTO=rate, e.g. USDAUD=1.52. Repeatable.")
	f.Var(c.metadata, "m", "Metadata attached to the snapshot as key=value. Repeatable.")
	f.BoolVar(&c.history, "history", false, "List archived snapshots")
	f.BoolVar(&c.json, "json", false, "Print the recorded snapshot as JSON")
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.history {
		snaps, err := DecodeSnapshots()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading archive %q: %v\n", *ArchiveFile, err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.HistoryMarkdown(snaps))
		return subcommands.ExitSuccess
	}

	s, err := DecodeState(c.rates.options()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	snap := s.CreateSnapshot(c.metadata)
	if err := AppendSnapshot(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing archive %q: %v\n", *ArchiveFile, err)
		return subcommands.ExitFailure
	}
	log.Info().Str("id", snap.ID()).Str("total", snap.TotalValue().String()).Msg("snapshot recorded")
	if c.json {
		if err := printJSON(snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SnapshotMarkdown(snap))
	return subcommands.ExitSuccess
}
