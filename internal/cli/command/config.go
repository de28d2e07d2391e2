package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/hexmatch-go/internal/cli/config"
	"github.com/yndnr/hexmatch-go/internal/cli/output"
	"github.com/yndnr/hexmatch-go/internal/infra/confloader"
	"github.com/yndnr/hexmatch-go/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Server configuration commands",
		Subcommands: []*cli.Command{
			{
				Name:      "test",
				Usage:     "Load and verify a server configuration file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-env",
						Usage: "Ignore HEXMATCH_* environment overrides",
					},
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the effective configuration",
					},
				},
				Action: configTest,
			},
			{
				Name:   "default",
				Usage:  "Print the default server configuration",
				Action: configDefault,
			},
			{
				Name:  "cli",
				Usage: "Manage CLI defaults (cli.yaml)",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show the CLI defaults file",
						Action: configCLIShow,
					},
					{
						Name:      "set",
						Usage:     "Set a CLI default; an empty VALUE clears it",
						ArgsUsage: "KEY VALUE",
						Action:    configCLISet,
					},
				},
			},
		},
	}
}

// LoadServerConfig loads path over the defaults, optionally applying
// environment overrides, and verifies the result.
func LoadServerConfig(path string, withEnv bool) (*config.ServerConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(path))

	if withEnv {
		if err := loader.Load(cfg); err != nil {
			return nil, err
		}
	} else {
		if err := loader.LoadFile(path); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Verify(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func configTest(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("configuration file path required", ExitFailure)
	}

	cfg, err := LoadServerConfig(path, !c.Bool("no-env"))
	if cfg == nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	if err != nil {
		fmt.Fprintf(c.App.Writer, "✗ Configuration %s is invalid:\n", path)
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(c.App.Writer, "  - %s\n", line)
		}
		return cli.Exit("", ExitInvalid)
	}

	if c.Bool("print") || ParseGlobalFlags(c).Format() != output.FormatTable {
		return printConfig(c, cfg)
	}
	fmt.Fprintf(c.App.Writer, "✓ Configuration %s is valid.\n", path)
	return nil
}

func configDefault(c *cli.Context) error {
	return printConfig(c, config.Default())
}

// printConfig writes cfg as YAML unless json output is selected.
func printConfig(c *cli.Context, cfg *config.ServerConfig) error {
	var f output.Formatter = &output.YAMLFormatter{}
	if ParseGlobalFlags(c).Format() == output.FormatJSON {
		f = &output.JSONFormatter{}
	}
	return f.Format(c.App.Writer, cfg)
}

func configCLIShow(c *cli.Context) error {
	path := ParseGlobalFlags(c).Config
	cfg, err := cliconfig.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	return render(c, cfg, func() *output.Table {
		t := &output.Table{Headers: []string{"KEY", "VALUE"}}
		t.AddRow("path", dash(path))
		for _, key := range cliconfig.Keys() {
			v, _ := cfg.Get(key)
			t.AddRow(key, dash(v))
		}
		return t
	})
}

func configCLISet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: config cli set KEY VALUE", ExitFailure)
	}
	key, value := c.Args().Get(0), c.Args().Get(1)
	if key == "output" && value != "" {
		if _, err := output.ParseFormat(value); err != nil {
			return cli.Exit(err.Error(), ExitFailure)
		}
	}

	path := ParseGlobalFlags(c).Config
	cfg, err := cliconfig.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	if err := cfg.Set(key, value); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	if err := cliconfig.Save(cfg, path); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	fmt.Fprintf(c.App.Writer, "✓ Set %s in %s\n", key, path)
	return nil
}
