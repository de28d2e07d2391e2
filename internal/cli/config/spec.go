package config

import (
	"fmt"
	"sort"
)

// CLIConfig is the content of cli.yaml.
type CLIConfig struct {
	// Server is the default --server address.
	Server string `yaml:"server,omitempty" json:"server,omitempty"`
	// Output is the default --output format.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	// Engine is the default --engine for local commands.
	Engine string `yaml:"engine,omitempty" json:"engine,omitempty"`
	// CAFile is the default --ca-file bundle for https servers.
	CAFile string `yaml:"ca-file,omitempty" json:"ca-file,omitempty"`
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := []string{"server", "output", "engine", "ca-file"}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key.
func (c *CLIConfig) Get(key string) (string, error) {
	p, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set assigns value to key. An empty value clears it.
func (c *CLIConfig) Set(key, value string) error {
	p, err := c.field(key)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Values returns the non-empty settings keyed by name.
func (c *CLIConfig) Values() map[string]string {
	out := make(map[string]string)
	for _, k := range Keys() {
		if v, _ := c.Get(k); v != "" {
			out[k] = v
		}
	}
	return out
}

func (c *CLIConfig) field(key string) (*string, error) {
	switch key {
	case "server":
		return &c.Server, nil
	case "output":
		return &c.Output, nil
	case "engine":
		return &c.Engine, nil
	case "ca-file":
		return &c.CAFile, nil
	default:
		return nil, fmt.Errorf("unknown cli config key %q (want one of %v)", key, Keys())
	}
}
