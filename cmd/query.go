package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

// queryCmd holds the flags for the 'query' subcommand.
type queryCmd struct {
	first bool
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression against the state" }
func (*queryCmd) Usage() string {
	return `folio query [-first] <jsonpath>

  Evaluates a JSONPath expression against the state document and prints the
  result as JSON.

Usage Examples:
$ folio query '$.holdings.AAPL.quantity'
$ folio query '$.cash_balances[*].available'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.first, "first", false, "Print only the first match when the result is a list")
}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}
	s, err := DecodeState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state %q: %v\n", *StateFile, err)
		return subcommands.ExitFailure
	}
	val, err := queryDocument(s.Document(), f.Arg(0), c.first)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printJSON(val); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// queryDocument evaluates path against the JSON form of doc.
func queryDocument(doc folio.Document, path string, first bool) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", path, err)
	}
	// wildcards return a list even for a single match.
	if jlist, ok := jval.([]any); ok && first {
		if len(jlist) == 0 {
			return nil, nil
		}
		jval = jlist[0]
	}
	return jval, nil
}
