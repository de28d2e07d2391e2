// Package matcher provides interchangeable engines for classifying
// hex color codes.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/pkg/hexcolor"
)

// Engine names.
const (
	EngineScan         = "scan"
	EngineRegexp       = "regexp"
	EngineBacktracking = "backtracking"
)

// DefaultEngine is used when no engine is configured.
const DefaultEngine = EngineScan

// backtrackTimeout bounds a single regexp2 match.
const backtrackTimeout = 100 * time.Millisecond

// Matcher classifies inputs as hex color codes.
// Implementations are safe for concurrent use.
type Matcher interface {
	Name() string
	Match(input string) bool
}

var factories = map[string]func() Matcher{
	EngineScan:         func() Matcher { return Scan{} },
	EngineRegexp:       func() Matcher { return NewRegexp() },
	EngineBacktracking: func() Matcher { return NewBacktracking() },
}

// New returns the engine registered under name. An empty name
// selects DefaultEngine.
func New(name string) (Matcher, error) {
	if name == "" {
		name = DefaultEngine
	}
	f, ok := factories[strings.ToLower(name)]
	if !ok {
		return nil, domain.ErrUnknownEngine.WithDetails(name)
	}
	return f(), nil
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scan matches with hexcolor.IsValid.
type Scan struct{}

// Name implements Matcher.
func (Scan) Name() string { return EngineScan }

// Match implements Matcher.
func (Scan) Match(input string) bool { return hexcolor.IsValid(input) }

// Regexp matches with the standard library RE2 engine.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles hexcolor.Pattern with the case-insensitive flag.
func NewRegexp() *Regexp {
	return &Regexp{re: regexp.MustCompile("(?" + hexcolor.PatternFlags + ")" + hexcolor.Pattern)}
}

// Name implements Matcher.
func (m *Regexp) Name() string { return EngineRegexp }

// Match implements Matcher.
func (m *Regexp) Match(input string) bool { return m.re.MatchString(input) }

// Backtracking matches with dlclark/regexp2.
//
// regexp2 follows .NET semantics where '$' also matches before a final
// newline, so the end anchor is rewritten to '\z'.
type Backtracking struct {
	re *regexp2.Regexp
}

// NewBacktracking compiles hexcolor.Pattern for regexp2.
func NewBacktracking() *Backtracking {
	expr := strings.TrimSuffix(hexcolor.Pattern, "$") + `\z`
	re := regexp2.MustCompile(expr, regexp2.IgnoreCase)
	re.MatchTimeout = backtrackTimeout
	return &Backtracking{re: re}
}

// Name implements Matcher.
func (m *Backtracking) Name() string { return EngineBacktracking }

// Match implements Matcher. A match error (timeout) classifies the
// input as invalid.
func (m *Backtracking) Match(input string) bool {
	ok, err := m.re.MatchString(input)
	if err != nil {
		return false
	}
	return ok
}
