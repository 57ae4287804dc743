package clauerr

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiagnosticError(t *testing.T) {
	d := UnexpectedTokenf(SourceLocation{Line: 2, Column: 3, Offset: 10}, "unexpected %s", "=")
	if got, want := d.Error(), "2:3: unexpected_token: unexpected ="; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEnrichAddsSurroundingLines(t *testing.T) {
	source := "one\ntwo\nthree\nfour\nfive"
	d := Lexf(SourceLocation{Line: 3, Column: 1}, "boom")
	Enrich(d, source)
	if d.Context == nil {
		t.Fatal("expected context to be populated")
	}
	if d.Context.Lines[d.Context.HighlightIndex] != "three" {
		t.Fatalf("expected highlighted line 'three', got %q", d.Context.Lines[d.Context.HighlightIndex])
	}
}

func TestEnrichOutOfBoundsLeavesContextNil(t *testing.T) {
	d := Lexf(SourceLocation{Line: 99, Column: 1}, "boom")
	Enrich(d, "one\ntwo")
	if d.Context != nil {
		t.Fatalf("expected nil context for out-of-bounds line, got %+v", d.Context)
	}
}

func TestMarshalJSON(t *testing.T) {
	d := MixedContainerf(SourceLocation{Line: 1, Column: 1}, "mixed map and array")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["kind"] != "mixed_container" {
		t.Fatalf("got kind %v, want mixed_container", out["kind"])
	}
}

func TestFormatForTerminalContainsMessage(t *testing.T) {
	d := UnexpectedEOFf(SourceLocation{Line: 1, Column: 1}, "input ended inside a block")
	formatted := d.FormatForTerminal()
	if !strings.Contains(formatted, "input ended inside a block") {
		t.Fatalf("expected formatted output to contain message, got %q", formatted)
	}
}
