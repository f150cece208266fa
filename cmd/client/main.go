// Package main implements a command line client for the MailHog REST API
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/subcommands"
	"github.com/inbucket/mhclient/pkg/config"
	"github.com/inbucket/mhclient/pkg/rest/client"
	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// version contains the build version number, populated during linking.
	version = "undefined"

	// date contains the build date, populated during linking.
	date = "undefined"
)

var apiURL = flag.String("url", "", "MailHog API base URL, overrides MAILHOG_API_URL")
var logjson = flag.Bool("logjson", false, "Logs are written in JSON format.")

// kindFlag accepts a MailHog search kind
type kindFlag struct {
	model.Kind
}

func (k *kindFlag) Set(value string) error {
	kind := model.Kind(value)
	if !kind.Valid() {
		return fmt.Errorf("kind %q not one of: from, to, containing", value)
	}
	k.Kind = kind
	return nil
}

func (k *kindFlag) String() string {
	return string(k.Kind)
}

// kindFlag must implement flag.Value
var _ flag.Value = &kindFlag{}

// cliReporter prints assertion failures to stderr and remembers that one occurred.
type cliReporter struct {
	failed bool
}

func (r *cliReporter) Errorf(format string, args ...interface{}) {
	r.failed = true
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func main() {
	// Important top-level flags
	subcommands.ImportantFlag("url")

	// Setup standard helpers
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	// Setup my commands
	subcommands.Register(&purgeCmd{}, "")
	subcommands.Register(&deleteCmd{}, "")
	subcommands.Register(&findCmd{}, "")
	subcommands.Register(&latestCmd{}, "")
	subcommands.Register(&getCmd{}, "")
	subcommands.Register(&sourceCmd{}, "")
	subcommands.Register(&otpCmd{}, "")
	subcommands.Register(&countCmd{}, "")
	subcommands.Register(&watchCmd{}, "")

	flag.Usage = func() {
		subcommands.DefaultCommander.Explain(os.Stderr)
		fmt.Fprintln(os.Stderr, "")
		config.Usage()
	}

	// Parse and execute
	flag.Parse()
	config.Version = version
	config.BuildDate = date
	conf, err := config.Process()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	if *apiURL != "" {
		conf.API.URL = *apiURL
	}
	if err := openLog(conf.LogLevel, *logjson); err != nil {
		fmt.Fprintf(os.Stderr, "Log error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	log.Debug().Str("phase", "startup").Str("version", config.Version).
		Str("buildDate", config.BuildDate).Msg("MailHog client starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitStatus := subcommands.Execute(ctx, conf)
	stop()
	os.Exit(int(exitStatus))
}

// newClient builds a REST client from the configuration passed to Execute.
func newClient(args []interface{}, reporter client.Reporter) (*client.Client, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing configuration")
	}
	conf, ok := args[0].(*config.Root)
	if !ok {
		return nil, fmt.Errorf("missing configuration")
	}
	return client.New(conf.API.URL,
		client.WithClientOptsTimeout(conf.API.Timeout),
		client.WithClientOptsReporter(reporter))
}

// openLog configures zerolog output.
func openLog(level string, json bool) error {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		return fmt.Errorf("Log level %q not one of: debug, info, warn, error", level)
	}
	w := zerolog.SyncWriter(os.Stderr)
	if json {
		log.Logger = log.Output(w)
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     w,
		NoColor: runtime.GOOS == "windows",
	})
	return nil
}

func fatal(msg string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}

// status converts reported assertion failures into an exit status.
func status(reporter *cliReporter) subcommands.ExitStatus {
	if reporter.failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
