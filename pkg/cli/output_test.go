package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type backendSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (b backendSummary) String() string {
	return b.Name + " -> " + b.URL
}

func TestTextFormatter_UsesStringer(t *testing.T) {
	formatter := NewFormatter(FormatText)
	data := backendSummary{Name: "inventory", URL: "http://inventory-service:81"}

	output, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "inventory -> http://inventory-service:81\n" {
		t.Errorf("Format() = %q", output)
	}

	var buf bytes.Buffer
	if err := formatter.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != string(output) {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), output)
	}
}

func TestJSONFormatter(t *testing.T) {
	data := []backendSummary{
		{Name: "inventory", URL: "http://inventory-service:81"},
		{Name: "user", URL: "http://user-manager:9999"},
	}

	for _, indent := range []bool{false, true} {
		formatter := &JSONFormatter{Indent: indent}

		output, err := formatter.Format(data)
		if err != nil {
			t.Fatalf("Format(indent=%v) error = %v", indent, err)
		}
		if got := strings.Contains(string(output), "\n  "); got != indent {
			t.Errorf("Format(indent=%v) indentation = %v:\n%s", indent, got, output)
		}

		var decoded []backendSummary
		if err := json.Unmarshal(output, &decoded); err != nil {
			t.Fatalf("Format(indent=%v) produced invalid JSON: %v", indent, err)
		}
		if len(decoded) != 2 || decoded[1].Name != "user" {
			t.Errorf("decoded = %+v", decoded)
		}
	}
}

func TestJSONFormatter_FormatTo(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(FormatJSON)

	if err := formatter.FormatTo(&buf, map[string]bool{"valid": true}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded map[string]bool
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("FormatTo() produced invalid JSON: %v", err)
	}
	if !decoded["valid"] {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) should return a TextFormatter")
	}
	if _, ok := NewFormatter("yaml").(*TextFormatter); !ok {
		t.Error("NewFormatter with an unknown format should fall back to text")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "csv", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
