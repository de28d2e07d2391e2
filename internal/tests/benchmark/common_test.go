package benchmark

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/yndnr/hexmatch-go/internal/core/matcher"
)

// BatchSizes are the batch lengths exercised by service benchmarks.
var BatchSizes = []int{10, 100, 1000}

// inputCorpus mixes the valid and invalid shapes seen in practice.
var inputCorpus = []string{
	"#1f1f1F",
	"#AFAFDD",
	"#abc",
	"#F0F",
	"#FFFFFFFF",
	"#1234",
	"123456",
	"#12345G",
	"#",
	"",
	"#abc\n",
	" #abc",
	"#ABCDEF0",
}

// newInputs returns n inputs drawn from inputCorpus with a fixed seed.
func newInputs(n int) []string {
	r := rand.New(rand.NewSource(42))
	out := make([]string, n)
	for i := range out {
		out[i] = inputCorpus[r.Intn(len(inputCorpus))]
	}
	return out
}

// uniqueInputs returns n distinct valid six-digit colors.
func uniqueInputs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("#%06x", i&0xffffff)
	}
	return out
}

// longInput is a rejected input far above any cache key limit.
func longInput(n int) string {
	return "#" + strings.Repeat("a", n)
}

func newEngine(b *testing.B, name string) matcher.Matcher {
	b.Helper()
	m, err := matcher.New(name)
	if err != nil {
		b.Fatalf("matcher.New(%q) error = %v", name, err)
	}
	return m
}
