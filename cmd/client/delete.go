package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type purgeCmd struct{}

func (*purgeCmd) Name() string {
	return "purge"
}

func (*purgeCmd) Synopsis() string {
	return "delete all messages"
}

func (*purgeCmd) Usage() string {
	return `purge:
	delete every message held by MailHog
`
}

func (p *purgeCmd) SetFlags(f *flag.FlagSet) {}

func (p *purgeCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	if err := c.DeleteAllEmails(ctx); err != nil {
		return fatal("Delete REST call failed", err)
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string {
	return "delete"
}

func (*deleteCmd) Synopsis() string {
	return "delete messages by ID"
}

func (*deleteCmd) Usage() string {
	return `delete <id>...:
	delete the specified messages
`
}

func (d *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (d *deleteCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usage("message ID required")
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	for _, id := range f.Args() {
		if err := c.DeleteEmail(ctx, id); err != nil {
			return fatal("Delete REST call failed", err)
		}
	}
	return subcommands.ExitSuccess
}
