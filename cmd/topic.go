package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded user manual.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the user manual" }
func (*topicCmd) Usage() string {
	return `folio topic [-list] [<topic>...]

  Prints the named topics of the user manual, or its introduction when no
  topic is given. "*" prints the whole manual.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the topic names")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics, err := docs.Topics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the manual: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.list {
		fmt.Println(strings.Join(topics, "\n"))
		return subcommands.ExitSuccess
	}
	names := f.Args()
	if len(names) == 0 {
		names = append(names, "readme")
	}
	md, err := docs.Join(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (known topics: %s)\n", err, strings.Join(topics, ", "))
		return subcommands.ExitUsageError
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
