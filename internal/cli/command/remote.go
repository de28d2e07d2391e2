package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hexmatch-go/internal/cli/connection"
	"github.com/yndnr/hexmatch-go/internal/cli/output"
)

// DefaultRemoteBatchSize matches the server's default batch limit.
const DefaultRemoteBatchSize = 1000

// RemoteCommand returns the remote subcommand group.
func RemoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Validate against a running hexmatch server",
		Subcommands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "Check inputs on the server",
				ArgsUsage: "[COLOR...]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Maximum inputs per batch request",
						Value: DefaultRemoteBatchSize,
					},
				},
				Action: remoteCheck,
			},
			{
				Name:   "engines",
				Usage:  "Show the server's active and available engines",
				Action: remoteEngines,
			},
		},
	}
}

// checkRemote sends inputs to the server in batches of at most size
// and merges the results in input order.
func checkRemote(ctx context.Context, client *connection.HTTPClient, inputs []string, size int) (*connection.BatchResult, error) {
	if size < 1 {
		size = DefaultRemoteBatchSize
	}

	merged := &connection.BatchResult{}
	for start := 0; start < len(inputs); start += size {
		end := min(start+size, len(inputs))
		res, err := client.ValidateBatch(ctx, inputs[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end-1, err)
		}
		merged.Results = append(merged.Results, res.Results...)
		merged.Valid += res.Valid
		merged.Invalid += res.Invalid
	}
	merged.Total = len(merged.Results)
	return merged, nil
}

func remoteCheck(c *cli.Context) error {
	inputs, err := collectInputs(c)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return cli.Exit("no inputs to check", ExitFailure)
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	getLogger(c).Debug("remote check", "server", client.BaseURL(), "count", len(inputs))

	res, err := checkRemote(c.Context, client, inputs, c.Int("batch-size"))
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	if err := render(c, res, func() *output.Table { return verdictTable(res.Results, ParseGlobalFlags(c).Wide) }); err != nil {
		return err
	}
	if res.Invalid > 0 {
		return invalidExit(res.Invalid, len(inputs))
	}
	return nil
}

func remoteEngines(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	engines, err := client.Engines(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	return render(c, engines, func() *output.Table {
		t := &output.Table{Headers: []string{"NAME", "ACTIVE"}}
		for _, name := range engines.Available {
			active := "false"
			if name == engines.Active {
				active = "true"
			}
			t.AddRow(name, active)
		}
		return t
	})
}
