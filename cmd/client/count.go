package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/rest/client"
)

type countCmd struct {
	comparison string
	expect     int
}

func (*countCmd) Name() string {
	return "count"
}

func (*countCmd) Synopsis() string {
	return "count messages, optionally asserting on the result"
}

func (*countCmd) Usage() string {
	return `count [flags] [query]:
	output the number of messages containing query, or of all messages
	when -expect is given, exit status will be 1 if the comparison fails
`
}

func (c *countCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.comparison, "cmp", "equals", "comparison: atLeast, atMost, or equals")
	f.IntVar(&c.expect, "expect", -1, "expected count, negative to skip the assertion")
}

func (c *countCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cmp, err := client.ParseComparison(c.comparison)
	if err != nil {
		return usage(err.Error())
	}
	reporter := &cliReporter{}
	rc, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	query := f.Arg(0)
	if c.expect < 0 {
		count, err := rc.InboxCount(ctx, query)
		if err != nil {
			return fatal("Count REST call failed", err)
		}
		fmt.Println(count)
		return subcommands.ExitSuccess
	}
	if _, err := rc.AssertInboxCount(ctx, query, cmp, c.expect); err != nil {
		return fatal("Count REST call failed", err)
	}
	return status(reporter)
}
