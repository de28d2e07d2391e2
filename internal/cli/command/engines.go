package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hexmatch-go/internal/cli/output"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
)

var engineDescriptions = map[string]string{
	matcher.EngineScan:         "single-pass byte scanner",
	matcher.EngineRegexp:       "RE2 regular expression (regexp)",
	matcher.EngineBacktracking: "backtracking regular expression (regexp2) with match timeout",
}

// EngineInfo describes a matching engine.
type EngineInfo struct {
	Name        string `json:"name" yaml:"name"`
	Default     bool   `json:"default" yaml:"default"`
	Selected    bool   `json:"selected" yaml:"selected"`
	Description string `json:"description" yaml:"description" table:"wide"`
}

// EnginesCommand returns the local engines command.
func EnginesCommand() *cli.Command {
	return &cli.Command{
		Name:   "engines",
		Usage:  "List the matching engines available locally",
		Action: runEngines,
	}
}

// listEngines describes every registered engine, marking selected.
func listEngines(selected string) []EngineInfo {
	if selected == "" {
		selected = matcher.DefaultEngine
	}
	var infos []EngineInfo
	for _, name := range matcher.Names() {
		infos = append(infos, EngineInfo{
			Name:        name,
			Default:     name == matcher.DefaultEngine,
			Selected:    name == selected,
			Description: engineDescriptions[name],
		})
	}
	return infos
}

func runEngines(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	infos := listEngines(flags.Engine)
	return render(c, infos, func() *output.Table {
		t := &output.Table{Headers: []string{"NAME", "DEFAULT", "SELECTED"}}
		if flags.Wide {
			t.Headers = append(t.Headers, "DESCRIPTION")
		}
		for _, e := range infos {
			row := []string{e.Name, strconv.FormatBool(e.Default), strconv.FormatBool(e.Selected)}
			if flags.Wide {
				row = append(row, e.Description)
			}
			t.AddRow(row...)
		}
		return t
	})
}
