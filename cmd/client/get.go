package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/message"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

type getCmd struct {
	output string
}

func (*getCmd) Name() string {
	return "get"
}

func (*getCmd) Synopsis() string {
	return "output a message"
}

func (*getCmd) Usage() string {
	return `get [flags] <id>:
	output the message with the given ID
`
}

func (g *getCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&g.output, "output", "json", "output format: id, json, summary, or text")
}

func (g *getCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	id := f.Arg(0)
	if id == "" {
		return usage("message ID required")
	}
	outFunc, ok := outputFuncs[g.output]
	if !ok {
		return usage("unknown output type: " + g.output)
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	msg, err := c.GetEmail(ctx, id)
	if err != nil {
		return fatal("REST call failed", err)
	}
	if err := outFunc(os.Stdout, []*model.Message{msg}); err != nil {
		return fatal("Error", err)
	}
	return subcommands.ExitSuccess
}

type sourceCmd struct {
	text bool
}

func (*sourceCmd) Name() string {
	return "source"
}

func (*sourceCmd) Synopsis() string {
	return "output the raw source of a message"
}

func (*sourceCmd) Usage() string {
	return `source [flags] <id>:
	output the RFC 5322 source of the message with the given ID
`
}

func (s *sourceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.text, "text", false, "decode the source and output its text body")
}

func (s *sourceCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	id := f.Arg(0)
	if id == "" {
		return usage("message ID required")
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	source, err := c.DownloadEmail(ctx, id)
	if err != nil {
		return fatal("Get source REST call failed", err)
	}
	if !s.text {
		if _, err := source.WriteTo(os.Stdout); err != nil {
			return fatal("Error", err)
		}
		return subcommands.ExitSuccess
	}
	parsed, err := message.Read(source)
	if err != nil {
		return fatal("Couldn't parse source", err)
	}
	fmt.Println(parsed.Text)
	return subcommands.ExitSuccess
}
