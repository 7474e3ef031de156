package planner

import (
	"errors"
	"testing"

	"printestimate/internal/kinematics"
)

var errBoom = errors.New("boom")

func TestPlannerSingleMoveDecelsToRest(t *testing.T) {
	lim := testLimits()
	var finalized []*kinematics.Move
	p := New(lim, func(m *kinematics.Move) error {
		finalized = append(finalized, m)
		return nil
	})

	mv := kinematics.New(kinematics.Position{}, kinematics.Position{X: 100}, 300, lim, "extruder", 0)
	if err := p.Append(mv); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(finalized) != 1 {
		t.Fatalf("expected 1 finalized move, got %d", len(finalized))
	}
	m := finalized[0]
	if m.StartV2 != 0 {
		t.Errorf("start_v2 = %v, want 0 (isolated move starts at rest)", m.StartV2)
	}
	if m.EndV2 != 0 {
		t.Errorf("end_v2 = %v, want 0 (isolated move ends at rest)", m.EndV2)
	}
	if m.CruiseV2 > m.MaxCruiseV2+1e-9 {
		t.Errorf("cruise_v2 = %v exceeds max_cruise_v2 = %v", m.CruiseV2, m.MaxCruiseV2)
	}
}

func TestPlannerCollinearContinuationNoDeceleration(t *testing.T) {
	lim := testLimits()
	var finalized []*kinematics.Move
	p := New(lim, func(m *kinematics.Move) error {
		finalized = append(finalized, m)
		return nil
	})

	m1 := kinematics.New(kinematics.Position{}, kinematics.Position{X: 50}, 300, lim, "extruder", 0)
	m2 := kinematics.New(kinematics.Position{X: 50}, kinematics.Position{X: 100}, 300, lim, "extruder", 0)
	if err := p.Append(m1); err != nil {
		t.Fatalf("Append m1: %v", err)
	}
	if err := p.Append(m2); err != nil {
		t.Fatalf("Append m2: %v", err)
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(finalized) != 2 {
		t.Fatalf("expected 2 finalized moves, got %d", len(finalized))
	}
	if finalized[0].EndV2 != finalized[1].StartV2 {
		t.Errorf("end_v2 of move 1 (%v) != start_v2 of move 2 (%v)", finalized[0].EndV2, finalized[1].StartV2)
	}
	if finalized[0].EndV2 == 0 {
		t.Errorf("collinear continuation should not decelerate to 0 at the seam")
	}
}

func TestPlannerInvariantsHoldAcrossSequence(t *testing.T) {
	lim := testLimits()
	var finalized []*kinematics.Move
	p := New(lim, func(m *kinematics.Move) error {
		finalized = append(finalized, m)
		return nil
	})

	positions := []kinematics.Position{
		{X: 0}, {X: 100}, {X: 100, Y: 30}, {X: 20, Y: 30}, {X: 20, Y: 30, E: 5},
	}
	cur := positions[0]
	for _, next := range positions[1:] {
		mv := kinematics.New(cur, next, 300, lim, "extruder", 0)
		cur = next
		if mv == nil {
			continue
		}
		if err := p.Append(mv); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	for i, m := range finalized {
		if m.StartV2 < 0 || m.StartV2 > m.CruiseV2+1e-9 {
			t.Errorf("move %d: start_v2=%v cruise_v2=%v out of order", i, m.StartV2, m.CruiseV2)
		}
		if m.EndV2 < 0 || m.EndV2 > m.CruiseV2+1e-9 {
			t.Errorf("move %d: end_v2=%v cruise_v2=%v out of order", i, m.EndV2, m.CruiseV2)
		}
		if m.CruiseV2 > m.MaxCruiseV2+1e-9 {
			t.Errorf("move %d: cruise_v2=%v exceeds max_cruise_v2=%v", i, m.CruiseV2, m.MaxCruiseV2)
		}
		if m.StartV2 > m.MaxStartV2+1e-9 {
			t.Errorf("move %d: start_v2=%v exceeds max_start_v2=%v", i, m.StartV2, m.MaxStartV2)
		}
		if i+1 < len(finalized) && finalized[i].EndV2 != finalized[i+1].StartV2 {
			t.Errorf("move %d end_v2=%v != move %d start_v2=%v", i, finalized[i].EndV2, i+1, finalized[i+1].StartV2)
		}
	}
	if len(finalized) > 0 && finalized[len(finalized)-1].EndV2 != 0 {
		t.Errorf("terminal move end_v2 = %v, want 0", finalized[len(finalized)-1].EndV2)
	}
}

func TestPlannerFlushOnEmptyIsNoop(t *testing.T) {
	lim := testLimits()
	p := New(lim, func(m *kinematics.Move) error {
		t.Fatal("onFinal should not be called for an empty planner")
		return nil
	})
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush on empty planner: %v", err)
	}
}

func TestPlannerPropagatesFinalizeError(t *testing.T) {
	lim := testLimits()
	wantErr := errBoom
	p := New(lim, func(m *kinematics.Move) error {
		return wantErr
	})
	mv := kinematics.New(kinematics.Position{}, kinematics.Position{X: 10}, 100, lim, "extruder", 0)
	// A lone pending move is only finalized by Flush, so that is where the
	// callback's error surfaces.
	if err := p.Append(mv); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := p.Flush(); err != wantErr {
		t.Fatalf("Flush error = %v, want %v", err, wantErr)
	}
}
