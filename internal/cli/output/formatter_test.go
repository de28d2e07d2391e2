package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) is not a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("NewFormatter(yaml) is not a YAMLFormatter")
	}
	tf, ok := NewFormatter(FormatTable, true).(*TableFormatter)
	if !ok {
		t.Fatal("NewFormatter(table) is not a TableFormatter")
	}
	if !tf.Wide {
		t.Error("NewFormatter(table, wide) Wide = false, want true")
	}
	if _, ok := NewFormatter("unknown", false).(*TableFormatter); !ok {
		t.Error("NewFormatter(unknown) should default to table")
	}
}

type verdictRow struct {
	Input  string `json:"input" yaml:"input"`
	Valid  bool   `json:"valid" yaml:"valid"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func TestJSONFormatter_Format(t *testing.T) {
	f := &JSONFormatter{}

	t.Run("struct", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, verdictRow{Input: "#abc", Valid: true}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, `"input": "#abc"`) {
			t.Errorf("Format() = %s, missing input", out)
		}
		if !strings.Contains(out, `"valid": true`) {
			t.Errorf("Format() = %s, missing valid", out)
		}
	})

	t.Run("angle brackets are not escaped", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, verdictRow{Input: "<b>"}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"<b>"`) {
			t.Errorf("Format() = %s, want raw <b>", buf.String())
		}
	})

	t.Run("table becomes records", func(t *testing.T) {
		tbl := &Table{Headers: []string{"INPUT", "VALID"}}
		tbl.AddRow("#fff", "true")

		var buf bytes.Buffer
		if err := f.Format(&buf, tbl); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"input": "#fff"`) {
			t.Errorf("Format() = %s, missing record", buf.String())
		}
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, nil); err != nil {
			t.Fatalf("Format(nil) error = %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "null" {
			t.Errorf("Format(nil) = %q, want null", got)
		}
	})
}

func TestYAMLFormatter_Format(t *testing.T) {
	f := &YAMLFormatter{}

	t.Run("struct", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, verdictRow{Input: "#12", Valid: false, Reason: "invalid_length"}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"#12", "valid: false", "reason: invalid_length"} {
			if !strings.Contains(out, want) {
				t.Errorf("Format() = %q, missing %q", out, want)
			}
		}
	})

	t.Run("nested slice", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string][]string{"available": {"scan", "regexp"}}
		if err := f.Format(&buf, data); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()
		if !strings.HasPrefix(out, "available:\n") || !strings.Contains(out, "- scan\n") || !strings.Contains(out, "- regexp\n") {
			t.Errorf("Format() = %q", out)
		}
	})

	t.Run("table becomes records", func(t *testing.T) {
		tbl := &Table{Headers: []string{"INPUT", "VALID"}}
		tbl.AddRow("abc", "true")

		var buf bytes.Buffer
		if err := f.Format(&buf, tbl); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if !strings.Contains(buf.String(), "input: abc") {
			t.Errorf("Format() = %q, missing record", buf.String())
		}
	})
}
