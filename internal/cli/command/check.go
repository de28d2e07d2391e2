package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hexmatch-go/internal/cli/output"
	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/core/service"
	"github.com/yndnr/hexmatch-go/pkg/hexcolor"
)

// stdinArg selects standard input as the input source.
const stdinArg = "-"

// CheckCommand returns the local check command.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check whether inputs are hex color codes",
		ArgsUsage: "[COLOR...]",
		Description: "Each COLOR is classified with the engine selected by --engine.\n" +
			"With no arguments, or with \"-\", inputs are read from stdin one per line.\n" +
			"Exits with status 1 when any input is not a valid color.",
		Action: runCheck,
	}
}

// ExplainCommand returns the explain command.
func ExplainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Explain why an input is or is not a hex color code",
		ArgsUsage: "COLOR",
		Action:    runExplain,
	}
}

// newLocalService builds an uncached validation service for --engine.
func newLocalService(c *cli.Context) (*service.ValidationService, error) {
	m, err := matcher.New(ParseGlobalFlags(c).Engine)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitFailure)
	}
	cfg := service.DefaultValidationConfig()
	cfg.CacheEnabled = false
	cfg.BatchMaxSize = 0
	return service.NewValidationService(m, cfg, nil, getLogger(c)), nil
}

func runCheck(c *cli.Context) error {
	inputs, err := collectInputs(c)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return cli.Exit("no inputs to check", ExitFailure)
	}

	svc, err := newLocalService(c)
	if err != nil {
		return err
	}

	res, err := svc.ValidateBatch(c.Context, inputs)
	if err != nil {
		return err
	}
	getLogger(c).Debug("checked inputs", "count", len(inputs), "invalid", res.Invalid, "engine", svc.Engine())

	if err := render(c, res, func() *output.Table { return verdictTable(res.Results, ParseGlobalFlags(c).Wide) }); err != nil {
		return err
	}
	if res.Invalid > 0 {
		return invalidExit(res.Invalid, len(inputs))
	}
	return nil
}

// collectInputs returns the command arguments, expanding "-" (or an
// empty argument list) into the lines of c.App.Reader.
func collectInputs(c *cli.Context) ([]string, error) {
	args := c.Args().Slice()
	if len(args) == 0 {
		args = []string{stdinArg}
	}

	var inputs []string
	readStdin := false
	for _, arg := range args {
		if arg != stdinArg {
			inputs = append(inputs, arg)
			continue
		}
		if readStdin {
			continue
		}
		readStdin = true
		lines, err := readLines(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		inputs = append(inputs, lines...)
	}
	return inputs, nil
}

// readLines splits r into lines. Each line is kept verbatim except for
// its terminator ("\n" or "\r\n"). A final line without a terminator
// is kept; nothing after the last terminator counts as a line.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if strings.HasSuffix(line, "\n") {
				line = strings.TrimSuffix(line[:len(line)-1], "\r")
			}
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func verdictTable(verdicts []*domain.Verdict, wide bool) *output.Table {
	t := &output.Table{Headers: []string{"INPUT", "VALID", "NORMALIZED", "REASON"}}
	if wide {
		t.Headers = append(t.Headers, "OFFSET", "ENGINE")
	}
	for _, v := range verdicts {
		reason := string(v.Reason)
		if v.Reason == domain.ReasonNone {
			reason = "-"
		}
		row := []string{displayInput(v.Input), strconv.FormatBool(v.Valid), dash(v.Normalized), reason}
		if wide {
			row = append(row, offsetCell(v.Offset), v.Engine)
		}
		t.AddRow(row...)
	}
	return t
}

// RGB is a decoded color.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Explanation is the output of the explain command.
type Explanation struct {
	domain.Verdict `yaml:",inline"`
	Message        string `json:"message,omitempty" yaml:"message,omitempty"`
	Short          string `json:"short,omitempty" yaml:"short,omitempty"`
	RGB            *RGB   `json:"rgb,omitempty" yaml:"rgb,omitempty"`
}

// Explain classifies input with svc and decodes it when valid.
func Explain(ctx context.Context, svc *service.ValidationService, input string) (*Explanation, error) {
	v, err := svc.Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	ex := &Explanation{Verdict: *v}
	if !v.Valid {
		if err := hexcolor.Check(input); err != nil {
			ex.Message = err.Error()
		}
		return ex, nil
	}
	if color, err := hexcolor.Parse(input); err == nil {
		ex.RGB = &RGB{R: color.R, G: color.G, B: color.B}
		if short, ok := color.Short(); ok {
			ex.Short = short
		}
	}
	return ex, nil
}

func runExplain(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("explain takes exactly one COLOR argument", ExitFailure)
	}

	svc, err := newLocalService(c)
	if err != nil {
		return err
	}
	ex, err := Explain(c.Context, svc, c.Args().First())
	if err != nil {
		return err
	}

	if err := render(c, ex, func() *output.Table { return explanationTable(ex) }); err != nil {
		return err
	}
	if !ex.Valid {
		return cli.Exit("", ExitInvalid)
	}
	return nil
}

func explanationTable(ex *Explanation) *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("input", displayInput(ex.Input))
	t.AddRow("valid", strconv.FormatBool(ex.Valid))
	t.AddRow("engine", ex.Engine)
	if !ex.Valid {
		t.AddRow("reason", string(ex.Reason))
		t.AddRow("offset", offsetCell(ex.Offset))
		t.AddRow("message", dash(ex.Message))
		return t
	}
	t.AddRow("normalized", ex.Normalized)
	t.AddRow("short", dash(ex.Short))
	if ex.RGB != nil {
		t.AddRow("rgb", fmt.Sprintf("rgb(%d, %d, %d)", ex.RGB.R, ex.RGB.G, ex.RGB.B))
	}
	return t
}
