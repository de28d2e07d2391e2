package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// errNoBytes is returned by the byte form of in-memory providers.
var errNoBytes = errors.New("confloader: in-memory source has no byte form")

// mapSource feeds an in-memory map to koanf. Dotted keys are expanded
// so {"log.level": "debug"} and {"log": {"level": "debug"}} load the
// same way.
type mapSource struct {
	data  map[string]any
	delim string
}

func (s mapSource) ReadBytes() ([]byte, error) {
	return nil, errNoBytes
}

func (s mapSource) Read() (map[string]any, error) {
	return maps.Unflatten(maps.Copy(s.data), s.delim), nil
}
