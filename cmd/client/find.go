package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/rest/client"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

type findCmd struct {
	kind   kindFlag
	limit  int
	start  int
	sorted bool
	output string
	delete bool
}

func (*findCmd) Name() string {
	return "find"
}

func (*findCmd) Synopsis() string {
	return "output messages matching a query"
}

func (*findCmd) Usage() string {
	return `find [flags] <query>:
	output messages matching the query
	exit status will be 1 if no matches were found, otherwise 0
`
}

func (m *findCmd) SetFlags(f *flag.FlagSet) {
	m.kind.Kind = model.KindContaining
	f.Var(&m.kind, "kind", "match kind: from, to, or containing")
	f.IntVar(&m.limit, "limit", 10, "maximum number of messages")
	f.IntVar(&m.start, "start", 0, "index of the first message")
	f.BoolVar(&m.sorted, "sort", false, "sort messages oldest first")
	f.StringVar(&m.output, "output", "id", "output format: id, json, or summary")
	f.BoolVar(&m.delete, "delete", false, "delete matched messages after output")
}

func (m *findCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	query := f.Arg(0)
	if query == "" {
		return usage("query required")
	}
	// Select output function
	outFunc, ok := outputFuncs[m.output]
	if !ok {
		return usage("unknown output type: " + m.output)
	}
	// Setup REST client
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	// Find matches
	matches, err := c.FindEmails(ctx, client.FindOptions{
		Kind:  m.kind.Kind,
		Query: query,
		Limit: m.limit,
		Start: m.start,
	})
	if err != nil {
		return fatal("Search REST call failed", err)
	}
	// Return error status if no matches
	if len(matches) == 0 {
		return subcommands.ExitFailure
	}
	if m.sorted {
		matches = model.SortByDate(matches)
	}
	// Output matches
	if err := outFunc(os.Stdout, matches); err != nil {
		return fatal("Error", err)
	}
	if m.delete {
		// Delete matches
		for _, msg := range matches {
			if err := c.DeleteEmail(ctx, msg.ID); err != nil {
				return fatal("Delete REST call failed", err)
			}
		}
	}
	return subcommands.ExitSuccess
}

type latestCmd struct {
	kind   kindFlag
	limit  int
	output string
}

func (*latestCmd) Name() string {
	return "latest"
}

func (*latestCmd) Synopsis() string {
	return "output the most recent message matching a query"
}

func (*latestCmd) Usage() string {
	return `latest [flags] <query>:
	output the most recent message matching the query
	exit status will be 1 if no matches were found, otherwise 0
`
}

func (l *latestCmd) SetFlags(f *flag.FlagSet) {
	l.kind.Kind = model.KindContaining
	f.Var(&l.kind, "kind", "match kind: from, to, or containing")
	f.IntVar(&l.limit, "limit", 10, "number of matches to choose from")
	f.StringVar(&l.output, "output", "summary", "output format: id, json, summary, or text")
}

func (l *latestCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	query := f.Arg(0)
	if query == "" {
		return usage("query required")
	}
	outFunc, ok := outputFuncs[l.output]
	if !ok {
		return usage("unknown output type: " + l.output)
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	msg, err := c.FindMostRecentEmail(ctx, client.FindOptions{
		Kind:  l.kind.Kind,
		Query: query,
		Limit: l.limit,
	})
	if err != nil {
		return fatal("Search REST call failed", err)
	}
	if msg == nil {
		return subcommands.ExitFailure
	}
	if err := outFunc(os.Stdout, []*model.Message{msg}); err != nil {
		return fatal("Error", err)
	}
	return subcommands.ExitSuccess
}
