package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/rest/client"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

type otpCmd struct {
	kind  kindFlag
	limit int
}

func (*otpCmd) Name() string {
	return "otp"
}

func (*otpCmd) Synopsis() string {
	return "output a one-time code and delete its message"
}

func (*otpCmd) Usage() string {
	return `otp [flags] <query>:
	output the one-time code from the most recent message matching the query,
	then delete that message.  The code must be in an element like:
	<code data-otp="one-time-code">123456</code>
	exit status will be 1 if no message or code was found, otherwise 0
`
}

func (o *otpCmd) SetFlags(f *flag.FlagSet) {
	o.kind.Kind = model.KindTo
	f.Var(&o.kind, "kind", "match kind: from, to, or containing")
	f.IntVar(&o.limit, "limit", 20, "number of matches to choose from")
}

func (o *otpCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	query := f.Arg(0)
	if query == "" {
		return usage("query required")
	}
	reporter := &cliReporter{}
	c, err := newClient(args, reporter)
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	code, err := c.GetOneTimeCode(ctx, client.FindOptions{
		Kind:  o.kind.Kind,
		Query: query,
		Limit: o.limit,
	})
	if err != nil {
		return fatal("REST call failed", err)
	}
	if code != "" {
		fmt.Println(code)
	}
	return status(reporter)
}
