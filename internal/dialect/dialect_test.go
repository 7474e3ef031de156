package dialect

import "testing"

func TestPrusaSlicerDetectAndRewrite(t *testing.T) {
	lines := []string{
		"G1 X10 F600",
		"; estimated printing time (normal mode) = 1h 2m 3s",
	}
	d := Detect(lines)
	if d == nil || d.Name() != "PrusaSlicer/SuperSlicer" {
		t.Fatalf("expected PrusaSlicer detection, got %v", d)
	}
	out := d.Rewrite(lines, Totals{TotalTime: 90})
	if out[1] != "; estimated printing time (normal mode) = 1m 30s" {
		t.Errorf("rewritten line = %q", out[1])
	}
	if out[0] != lines[0] {
		t.Errorf("non-matching line should pass through unchanged, got %q", out[0])
	}
}

func TestIdeaMakerDetectAndRewrite(t *testing.T) {
	lines := []string{";Print Time: 12h 0m 0s"}
	d := Detect(lines)
	if d == nil || d.Name() != "ideaMaker" {
		t.Fatalf("expected ideaMaker detection, got %v", d)
	}
	out := d.Rewrite(lines, Totals{TotalTime: 61})
	if out[0] != ";Print Time: 1m 1s" {
		t.Errorf("rewritten line = %q", out[0])
	}
}

func TestCuraDetectAndRewrite(t *testing.T) {
	lines := []string{
		";TIME:100",
		"G1 X10",
		";TIME_ELAPSED:0",
		"G1 X20",
		";TIME_ELAPSED:50",
	}
	d := Detect(lines)
	if d == nil || d.Name() != "Cura" {
		t.Fatalf("expected Cura detection, got %v", d)
	}
	totals := Totals{TotalTime: 100, ElapsedAtLine: []float64{10, 10, 40, 40, 100}}
	out := d.Rewrite(lines, totals)
	if out[0] != ";TIME:100.00" {
		t.Errorf("header = %q", out[0])
	}
	if out[2] != ";TIME_ELAPSED:40.00" {
		t.Errorf("elapsed marker = %q", out[2])
	}
	if out[4] != ";TIME_ELAPSED:100.00" {
		t.Errorf("final elapsed marker = %q", out[4])
	}
}

func TestDetectReturnsNilWhenNoDialectMatches(t *testing.T) {
	if d := Detect([]string{"G1 X10", "; just a comment"}); d != nil {
		t.Errorf("expected no dialect match, got %v", d.Name())
	}
}
