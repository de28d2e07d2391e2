package command

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/hexmatch-go/internal/cli/config"
	"github.com/yndnr/hexmatch-go/internal/cli/connection"
	"github.com/yndnr/hexmatch-go/internal/cli/output"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/infra/buildinfo"
	"github.com/yndnr/hexmatch-go/internal/infra/tlsroots"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
)

// Exit statuses.
const (
	ExitInvalid = 1
	ExitFailure = 2
)

const (
	metaLogger = "logger"

	// DefaultServer is the address used when --server is not set.
	DefaultServer = "localhost:5090"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "hexmatch",
		Usage:                "Validate hexadecimal color codes",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			CheckCommand(),
			ExplainCommand(),
			EnginesCommand(),
			RemoteCommand(),
			SystemCommand(),
			ConfigCommand(),
		},
		Before: before,
	}
}

func before(c *cli.Context) error {
	if err := applyCLIConfig(c); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	flags := ParseGlobalFlags(c)
	if _, err := output.ParseFormat(flags.Output); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	level := "warn"
	if flags.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "text", Output: c.App.ErrWriter})
	if err != nil {
		return err
	}
	c.App.Metadata[metaLogger] = log
	return nil
}

// applyCLIConfig fills global flags that were set neither on the
// command line nor in the environment from cli.yaml.
func applyCLIConfig(c *cli.Context) error {
	cfg, err := cliconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	for key, val := range cfg.Values() {
		if c.IsSet(key) {
			continue
		}
		if err := c.Set(key, val); err != nil {
			return fmt.Errorf("apply cli config %s: %w", key, err)
		}
	}
	return nil
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "hexmatch server address for remote and system commands",
			EnvVars: []string{"HEXMATCH_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "engine",
			Aliases: []string{"e"},
			Usage:   "Matching engine for local commands",
			EnvVars: []string{"HEXMATCH_ENGINE"},
			Value:   matcher.DefaultEngine,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI defaults file",
			EnvVars: []string{"HEXMATCH_CLI_CONFIG"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM bundle of extra CAs trusted for https servers",
			EnvVars: []string{"HEXMATCH_CA_FILE"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging on stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config  string
	Server  string
	Output  string
	Wide    bool
	Engine  string
	CAFile  string
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:  c.String("config"),
		Server:  c.String("server"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Engine:  c.String("engine"),
		CAFile:  c.String("ca-file"),
		Verbose: c.Bool("verbose"),
	}
}

// Format returns the parsed output format, defaulting to table.
func (f *GlobalFlags) Format() output.Format {
	format, err := output.ParseFormat(f.Output)
	if err != nil {
		return output.FormatTable
	}
	return format
}

// getLogger returns the logger installed by the Before hook.
func getLogger(c *cli.Context) *slog.Logger {
	if log, ok := c.App.Metadata[metaLogger].(logger.Logger); ok {
		return log.Slog()
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newClient builds an HTTP client for --server, trusting --ca-file
// in addition to the system roots.
func newClient(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)
	tlsCfg, err := tlsroots.ClientConfig(flags.CAFile)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitFailure)
	}
	return connection.NewHTTPClient(flags.Server, connection.WithTLSConfig(tlsCfg)), nil
}

// render writes data in the selected format. Table output uses the
// table built by tbl; json and yaml encode data itself.
func render(c *cli.Context, data any, tbl func() *output.Table) error {
	flags := ParseGlobalFlags(c)
	format := flags.Format()
	f := output.NewFormatter(format, flags.Wide)
	if format == output.FormatTable && tbl != nil {
		return f.Format(c.App.Writer, tbl())
	}
	return f.Format(c.App.Writer, data)
}

// displayInput makes an input safe to show in a table cell: inputs
// with whitespace or control characters are quoted, long ones clipped.
func displayInput(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if !unicode.IsGraphic(r) || unicode.IsSpace(r) {
			return logger.Clip(strconv.Quote(s))
		}
	}
	return logger.Clip(s)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func offsetCell(off int) string {
	if off < 0 {
		return "-"
	}
	return strconv.Itoa(off)
}

// invalidExit reports n invalid inputs out of total.
func invalidExit(n, total int) error {
	if total == 1 {
		return cli.Exit("", ExitInvalid)
	}
	return cli.Exit(fmt.Sprintf("%d of %d inputs are not valid hex colors", n, total), ExitInvalid)
}
