// Package userctl implements the userctl command line client.
package userctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `Usage: userctl [--backend-url URL] [--timeout D] <command> [flags]

Commands:
  list     [--skip N] [--limit N]        list users
  get      <id>                          show one user
  create   --name --surname --age --email --password [--superuser]
  health                                 check liveness and readiness
`

type cli struct {
	client *usersdk.Client
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
}

// Run executes userctl with args (without the program name) and returns the
// process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := loadConfig(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return ExitUsage
	}
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	logger := slogx.New(slogx.Config{
		Service: "userctl",
		Level:   cfg.LogLevel,
		Format:  "text",
		Output:  stderr,
	})
	logger.Debug("resolved config", "backend_url", cfg.BackendURL, "timeout", cfg.Timeout)

	c := &cli{
		client: usersdk.NewClient(cfg.BackendURL, usersdk.WithTimeout(cfg.Timeout)),
		out:    stdout,
		errOut: stderr,
		log:    logger,
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list":
		return c.list(ctx, cmdArgs)
	case "get":
		return c.get(ctx, cmdArgs)
	case "create":
		return c.create(ctx, cmdArgs)
	case "health":
		return c.health(ctx)
	case "help":
		fmt.Fprint(stdout, usage)
		return ExitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n%s", cmd, usage)
		return ExitUsage
	}
}

func (c *cli) fail(err error) int {
	c.log.Debug("request failed", "error", err)
	renderError(c.errOut, err)
	return ExitError
}

func (c *cli) list(ctx context.Context, args []string) int {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	skip := fs.Int("skip", 0, "records to skip")
	limit := fs.Int("limit", 100, "page size (max 1000)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	params := usersdk.ListUsersParams{}
	if fs.Changed("skip") {
		params.Skip = skip
	}
	if fs.Changed("limit") {
		params.Limit = limit
	}
	if details := params.Validate(); len(details) > 0 {
		return c.fail(&usersdk.APIError{StatusCode: http.StatusUnprocessableEntity, Fields: details})
	}

	page, err := c.client.ListUsers(ctx, params)
	if err != nil {
		return c.fail(err)
	}
	if err := renderUsers(c.out, page); err != nil {
		return c.fail(err)
	}
	return ExitOK
}

func (c *cli) get(ctx context.Context, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(c.errOut, "Error: get takes exactly one user id\n\n%s", usage)
		return ExitUsage
	}

	u, err := c.client.GetUser(ctx, args[0])
	if err != nil {
		return c.fail(err)
	}
	if err := renderUser(c.out, u); err != nil {
		return c.fail(err)
	}
	return ExitOK
}

func (c *cli) create(ctx context.Context, args []string) int {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var req usersdk.UserCreateRequest
	fs.StringVar(&req.Name, "name", "", "given name")
	fs.StringVar(&req.Surname, "surname", "", "family name")
	age := fs.Int("age", 0, "age in years")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.BoolVar(&req.IsSuperuser, "superuser", false, "grant superuser")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.Changed("age") {
		req.Age = age
	}

	if details := req.Validate(); len(details) > 0 {
		return c.fail(&usersdk.APIError{StatusCode: http.StatusUnprocessableEntity, Fields: details})
	}

	u, err := c.client.CreateUser(ctx, req)
	if err != nil {
		return c.fail(err)
	}

	fmt.Fprintln(c.out, "User created successfully!")
	if err := renderUser(c.out, u); err != nil {
		return c.fail(err)
	}
	return ExitOK
}

func (c *cli) health(ctx context.Context) int {
	live, err := c.client.GetLiveness(ctx)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.out, "live:  %s (version %s, uptime %s)\n", live.Status, live.Version, live.Uptime)

	ready, err := c.client.GetReadiness(ctx)
	if err != nil {
		return c.fail(err)
	}
	db := "unknown"
	if ready.Checks != nil {
		db = ready.Checks.Database
	}
	fmt.Fprintf(c.out, "ready: %s (database %s)\n", ready.Status, db)
	return ExitOK
}
