package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

type watchCmd struct {
	output string
}

func (*watchCmd) Name() string {
	return "watch"
}

func (*watchCmd) Synopsis() string {
	return "output messages as they arrive"
}

func (*watchCmd) Usage() string {
	return `watch [flags]:
	output each message MailHog receives until interrupted
`
}

func (w *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&w.output, "output", "summary", "output format: id, json, summary, or text")
}

func (w *watchCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	outFunc, ok := outputFuncs[w.output]
	if !ok {
		return usage("unknown output type: " + w.output)
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	messages, err := c.Watch(ctx)
	if err != nil {
		return fatal("Websocket failed", err)
	}
	for msg := range messages {
		if err := outFunc(os.Stdout, []*model.Message{msg}); err != nil {
			return fatal("Error", err)
		}
	}
	return subcommands.ExitSuccess
}
