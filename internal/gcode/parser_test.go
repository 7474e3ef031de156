package gcode

import "testing"

func TestParseBasicCommands(t *testing.T) {
	p := NewParser()

	tests := []struct {
		input   string
		cmdType byte
		cmdNum  int
		params  map[byte]float64
	}{
		{"G1 X100 F18000", 'G', 1, map[byte]float64{'X': 100, 'F': 18000}},
		{"g0 x10 y-20.5", 'G', 0, map[byte]float64{'X': 10, 'Y': -20.5}},
		{"M204 S1500", 'M', 204, map[byte]float64{'S': 1500}},
		{"T1", 'T', 1, map[byte]float64{}},
		{"G92 E0", 'G', 92, map[byte]float64{'E': 0}},
	}

	for _, tt := range tests {
		cmd, err := p.ParseLine(tt.input, 1)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if cmd == nil {
			t.Errorf("%q: got nil command", tt.input)
			continue
		}
		if cmd.Type != tt.cmdType || cmd.Number != tt.cmdNum {
			t.Errorf("%q: got %c%d, want %c%d", tt.input, cmd.Type, cmd.Number, tt.cmdType, tt.cmdNum)
		}
		for k, v := range tt.params {
			if got := cmd.Get(k, -999999); got != v {
				t.Errorf("%q: param %c = %v, want %v", tt.input, k, got, v)
			}
		}
	}
}

func TestParseBlankLineIsNil(t *testing.T) {
	p := NewParser()
	cmd, err := p.ParseLine("   ", 1)
	if err != nil || cmd != nil {
		t.Errorf("blank line: got (%v, %v), want (nil, nil)", cmd, err)
	}
}

func TestParseFullLineComment(t *testing.T) {
	p := NewParser()
	cmd, err := p.ParseLine("; TYPE:WALL-OUTER", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Comment != "; TYPE:WALL-OUTER" {
		t.Errorf("comment = %q", cmd.Comment)
	}
	if cmd.Type != 0 {
		t.Errorf("expected no command type for a comment-only line, got %c", cmd.Type)
	}
}

func TestParseTrailingComment(t *testing.T) {
	p := NewParser()
	cmd, err := p.ParseLine("G1 X10 ; move to start", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Comment != "; move to start" {
		t.Errorf("comment = %q", cmd.Comment)
	}
	if cmd.Get('X', 0) != 10 {
		t.Errorf("X = %v, want 10", cmd.Get('X', 0))
	}
}

func TestParseMalformedParameterErrors(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseLine("G1 X", 5); err == nil {
		t.Fatal("expected error for missing parameter value")
	}
	if _, err := p.ParseLine("G1 X10 &", 5); err == nil {
		t.Fatal("expected error for an unexpected character")
	}
}

func TestTrimCommentPrefix(t *testing.T) {
	tests := map[string]string{
		"; TYPE:WALL-OUTER": "TYPE:WALL-OUTER",
		";TYPE:FILL":        "TYPE:FILL",
		"(note)":            "note",
	}
	for in, want := range tests {
		if got := trimCommentPrefix(in); got != want {
			t.Errorf("trimCommentPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
