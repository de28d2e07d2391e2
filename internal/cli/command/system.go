package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hexmatch-go/internal/cli/connection"
	"github.com/yndnr/hexmatch-go/internal/cli/output"
	"github.com/yndnr/hexmatch-go/internal/core/domain"
)

// healthTimeout bounds system health and ready requests.
const healthTimeout = 10 * time.Second

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server status commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server liveness",
				Action: systemHealth,
			},
			{
				Name:   "ready",
				Usage:  "Check server readiness",
				Action: systemReady,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	return probe(c, "healthy", (*connection.HTTPClient).Health)
}

func systemReady(c *cli.Context) error {
	return probe(c, "ready", (*connection.HTTPClient).Ready)
}

type probeFunc func(*connection.HTTPClient, context.Context) (*connection.Health, error)

func probe(c *cli.Context, want string, fn probeFunc) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, healthTimeout)
	defer cancel()

	h, err := fn(client, ctx)
	if err != nil {
		if connection.IsCode(err, domain.ErrNotReady.Code) {
			fmt.Fprintf(c.App.Writer, "✗ Server is not %s\n  Target: %s\n", want, client.BaseURL())
			return cli.Exit("", ExitInvalid)
		}
		return cli.Exit(fmt.Sprintf("%s check failed: %v", want, err), ExitFailure)
	}

	if ParseGlobalFlags(c).Format() != output.FormatTable {
		return render(c, h, nil)
	}

	if h.Status != want {
		fmt.Fprintf(c.App.Writer, "✗ Server is not %s: %s\n", want, h.Status)
		return cli.Exit("", ExitInvalid)
	}
	fmt.Fprintf(c.App.Writer, "✓ Server is %s\n", want)
	fmt.Fprintf(c.App.Writer, "  Target: %s\n", client.BaseURL())
	if h.Version != "" {
		fmt.Fprintf(c.App.Writer, "  Version: %s\n", h.Version)
	}
	if h.Engine != "" {
		fmt.Fprintf(c.App.Writer, "  Engine: %s\n", h.Engine)
	}
	return nil
}
