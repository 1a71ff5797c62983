package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/dcu/sympa"
	"github.com/dcu/sympa/internal/config"
	"github.com/dcu/sympa/internal/logger"
)

const usage = `usage: sympa [flags] <command> [args]

commands:
  operations                                   operations described by the WSDL
  lists [topic [subtopic]]                     lists filed under a topic
  all-lists                                    every visible list
  which                                        lists of the logged in user
  subscribers <list>                           subscriber addresses
  members <list>                               members with their roles
  is-member <list> <email> <role>              role is subscriber, editor or owner
  create-list <name> <subject> <template> <topic> [description]

environment: SYMPA_URL, SYMPA_EMAIL, SYMPA_PASSWORD, SYMPA_LOG_LEVEL, SYMPA_TIMEOUT
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("sympa", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	debug := flags.Bool("debug", false, "log request and response envelopes")
	customTemplate := flags.Bool("custom-template", false, "allow templates unknown to a default Sympa installation")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level := cfg.LogLevel
	if *debug {
		level = slog.LevelDebug
	}
	log := logger.New(stderr, level)

	opts := []sympa.Option{
		sympa.WithLogger(log),
		sympa.WithTimeout(cfg.Timeout),
		sympa.WithUserAgent("sympa-cli"),
	}
	if *debug {
		opts = append(opts, sympa.WithDebug())
	}

	client, err := sympa.New(cfg.URL, opts...)
	if err != nil {
		log.Error("creating client", "error", err)
		return 1
	}

	command, rest := flags.Arg(0), flags.Args()[1:]

	if command != "operations" {
		if !cfg.HasCredentials() {
			log.Error("SYMPA_EMAIL and SYMPA_PASSWORD are required")
			return 2
		}
		if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			log.Error("login failed", "error", err)
			return 1
		}
		defer client.Logout()
	}

	result, err := dispatch(ctx, client, command, rest, *customTemplate)
	if err != nil {
		log.Error(command+" failed", "error", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("writing result", "error", err)
		return 1
	}

	return 0
}

func dispatch(ctx context.Context, client *sympa.Client, command string, args []string, customTemplate bool) (interface{}, error) {
	switch command {
	case "operations":
		return client.Operations(ctx)
	case "lists":
		var topic, subtopic string
		if len(args) > 0 {
			topic = args[0]
		}
		if len(args) > 1 {
			subtopic = args[1]
		}
		if topic == "" {
			return nil, fmt.Errorf("known topics: %s", strings.Join(sympa.Topics(), ", "))
		}
		return client.Lists(ctx, topic, subtopic)
	case "all-lists":
		return client.AllLists(ctx)
	case "which":
		return client.Which(ctx)
	case "subscribers":
		if err := needArgs(args, 1); err != nil {
			return nil, err
		}
		return client.SubscriberEmails(ctx, args[0])
	case "members":
		if err := needArgs(args, 1); err != nil {
			return nil, err
		}
		return client.Subscribers(ctx, args[0])
	case "is-member":
		if err := needArgs(args, 3); err != nil {
			return nil, err
		}
		return client.IsMember(ctx, args[1], args[0], sympa.Role(args[2]))
	case "create-list":
		if err := needArgs(args, 4); err != nil {
			return nil, err
		}
		req := &sympa.CreateListRequest{
			Name:                args[0],
			Subject:             args[1],
			Template:            args[2],
			Topic:               args[3],
			AllowCustomTemplate: customTemplate,
		}
		if len(args) > 4 {
			req.Description = args[4]
		}
		return client.CreateList(ctx, req)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

func needArgs(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}
