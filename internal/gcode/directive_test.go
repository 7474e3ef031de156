package gcode

import "testing"

func TestParseEstimatorAddTime(t *testing.T) {
	seconds, label, ok := parseEstimatorAddTime("; ESTIMATOR_ADD_TIME 21 Prime line")
	if !ok {
		t.Fatal("expected ok")
	}
	if seconds != 21 {
		t.Errorf("seconds = %v, want 21", seconds)
	}
	if label != "Prime line" {
		t.Errorf("label = %q, want %q", label, "Prime line")
	}
}

func TestParseEstimatorAddTimeNoLabel(t *testing.T) {
	seconds, label, ok := parseEstimatorAddTime(";ESTIMATOR_ADD_TIME 5")
	if !ok || seconds != 5 || label != "" {
		t.Errorf("got (%v, %q, %v), want (5, \"\", true)", seconds, label, ok)
	}
}

func TestParseEstimatorAddTimeRejectsNegative(t *testing.T) {
	if _, _, ok := parseEstimatorAddTime("; ESTIMATOR_ADD_TIME -5"); ok {
		t.Error("expected negative seconds to be rejected")
	}
}

func TestParseEstimatorAddTimeCaseSensitivePrefix(t *testing.T) {
	if _, _, ok := parseEstimatorAddTime("; estimator_add_time 5"); ok {
		t.Error("prefix match should be case-sensitive")
	}
}

func TestParseTypeMarker(t *testing.T) {
	tests := map[string]string{
		";TYPE:FILL":          "FILL",
		"; TYPE:WALL-OUTER":   "WALL-OUTER",
		"(TYPE: SUPPORT)":     "SUPPORT",
	}
	for in, want := range tests {
		kind, ok := parseTypeMarker(in)
		if !ok {
			t.Errorf("%q: expected a type marker", in)
			continue
		}
		if kind != want {
			t.Errorf("%q: kind = %q, want %q", in, kind, want)
		}
	}
}

func TestParseTypeMarkerNotAMatch(t *testing.T) {
	if _, ok := parseTypeMarker("; just a comment"); ok {
		t.Error("expected no match")
	}
}

func TestParseLayerMarker(t *testing.T) {
	layer, isChange, ok := parseLayerMarker(";LAYER_CHANGE")
	if !ok || !isChange {
		t.Errorf("LAYER_CHANGE: got (%v, %v, %v)", layer, isChange, ok)
	}

	layer, isChange, ok = parseLayerMarker(";LAYER:7")
	if !ok || isChange || layer != 7 {
		t.Errorf("LAYER:7: got (%v, %v, %v)", layer, isChange, ok)
	}
}
