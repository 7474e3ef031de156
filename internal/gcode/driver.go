package gcode

import (
	"fmt"

	"printestimate/internal/errs"
	"printestimate/internal/integrator"
	"printestimate/internal/kinematics"
	"printestimate/internal/limits"
	"printestimate/internal/planner"
	"printestimate/internal/sequencer"
)

// Driver replays a G-code stream against a planner and sequencer: it owns
// the modal state (§3 PrinterState), dispatches each parsed Command, and
// feeds resulting Move objects to the planner. Modal state mutates in the
// order Design §4.5 prescribes: override commands, then axis words, then
// the end position, then the Move itself.
type Driver struct {
	parser *Parser
	state  *sequencer.State
	limits *limits.PrinterLimits
	plan   *planner.Planner
	seq    *sequencer.Sequencer

	maxChordDeviation float64
	accelOverride     float64 // 0 = no M204 override in force
	lineNo            int

	onMove func(*kinematics.Move)
}

// NewDriver wires a fresh Driver against lim and seq.
func NewDriver(lim *limits.PrinterLimits, seq *sequencer.Sequencer) *Driver {
	d := &Driver{
		parser:            NewParser(),
		state:             sequencer.NewState(),
		limits:            lim,
		seq:               seq,
		maxChordDeviation: DefaultMaxChordDeviation,
	}
	d.state.Tool = "extruder"
	d.plan = planner.New(lim, d.onFinalize)
	return d
}

// SetMaxChordDeviation overrides the arc tessellation tolerance (default
// 1/60 mm).
func (d *Driver) SetMaxChordDeviation(mm float64) {
	if mm > 0 {
		d.maxChordDeviation = mm
	}
}

// LineNo returns the 1-based number of the last line processed.
func (d *Driver) LineNo() int { return d.lineNo }

// State exposes the live modal state, mainly for reporting current layer
// and kind between calls.
func (d *Driver) State() *sequencer.State { return d.state }

// OnMoveFinalized registers a callback invoked with every move as it leaves
// the planner, after integration and accounting — dump-moves uses
// this to capture a row per move without duplicating the pipeline.
func (d *Driver) OnMoveFinalized(fn func(*kinematics.Move)) { d.onMove = fn }

func (d *Driver) onFinalize(m *kinematics.Move) error {
	if err := integrator.Solve(m); err != nil {
		return err
	}
	d.seq.Account(m, m.Kind, m.Layer)
	if d.onMove != nil {
		d.onMove(m)
	}
	return nil
}

// ProcessLine parses and executes one line of input.
func (d *Driver) ProcessLine(line string) error {
	d.lineNo++
	cmd, err := d.parser.ParseLine(line, d.lineNo)
	if err != nil {
		return err
	}
	if cmd == nil {
		return nil
	}
	if cmd.Comment != "" {
		if err := d.handleComment(cmd.Comment); err != nil {
			return err
		}
	}
	switch cmd.Type {
	case 'G':
		return d.execG(cmd)
	case 'M':
		return d.execM(cmd)
	case 'T':
		return d.execT(cmd)
	}
	return nil
}

// Finish flushes any remaining buffered moves and closes the final
// sequence, as end-of-file is itself a flush trigger (§4.2).
func (d *Driver) Finish() error {
	if err := d.plan.Flush(); err != nil {
		return err
	}
	d.seq.Close(d.lineNo)
	return nil
}

func (d *Driver) handleComment(comment string) error {
	if seconds, label, ok := parseEstimatorAddTime(comment); ok {
		if err := d.plan.Flush(); err != nil {
			return err
		}
		d.seq.AddExtraTime(seconds, label)
		return nil
	}
	if kind, ok := parseTypeMarker(comment); ok {
		if id, mapped := d.limits.MoveKinds[kind]; mapped {
			kind = id
		}
		d.state.CurrentKind = kind
		return nil
	}
	if layer, isChange, ok := parseLayerMarker(comment); ok {
		if isChange {
			d.state.CurrentLayer++
		} else {
			d.state.CurrentLayer = layer
		}
		return nil
	}
	return nil
}

func (d *Driver) execG(cmd *Command) error {
	switch cmd.Number {
	case 0, 1:
		return d.doMove(cmd)
	case 2, 3:
		return d.doArc(cmd, cmd.Number == 2)
	case 4:
		return d.doDwell(cmd)
	case 90:
		d.state.AbsoluteXYZ = true
	case 91:
		d.state.AbsoluteXYZ = false
	case 92:
		d.doSetPosition(cmd)
	}
	return nil
}

func (d *Driver) execM(cmd *Command) error {
	switch cmd.Number {
	case 82:
		d.state.AbsoluteE = true
	case 83:
		d.state.AbsoluteE = false
	case 204:
		d.doAccelOverride(cmd)
	case 220:
		if cmd.Has('S') {
			d.state.SpeedFactor = cmd.Get('S', 100) / 100
		}
	case 221:
		if cmd.Has('S') {
			d.state.FlowFactor = cmd.Get('S', 100) / 100
		}
	case 400:
		if err := d.plan.Flush(); err != nil {
			return err
		}
		d.seq.Close(d.lineNo)
		return nil
	}
	return nil
}

// execT implements a tool change: per §3/§4.6 this is an explicit
// sequence-boundary flush, the canonical case being multi-object prints
// where each object is a materially independent run.
func (d *Driver) execT(cmd *Command) error {
	if err := d.plan.Flush(); err != nil {
		return err
	}
	d.seq.Close(d.lineNo)
	d.state.Tool = toolName(cmd.Number)
	return nil
}

func toolName(n int) string {
	if n <= 0 {
		return "extruder"
	}
	return fmt.Sprintf("extruder%d", n)
}

// resolveTarget applies the override -> axis-word -> end-position ordering
// of §4.5 for a single move, returning the resolved end position (with the
// M221 flow factor already applied to the extrusion delta).
func (d *Driver) resolveTarget(cmd *Command) kinematics.Position {
	cur := d.state.Position
	target := cur

	if cmd.Has('F') {
		d.state.FeedRate = cmd.Get('F', 0) / 60.0
	}

	if d.state.AbsoluteXYZ {
		if cmd.Has('X') {
			target.X = cmd.Get('X', cur.X)
		}
		if cmd.Has('Y') {
			target.Y = cmd.Get('Y', cur.Y)
		}
		if cmd.Has('Z') {
			target.Z = cmd.Get('Z', cur.Z)
		}
	} else {
		target.X = cur.X + cmd.Get('X', 0)
		target.Y = cur.Y + cmd.Get('Y', 0)
		target.Z = cur.Z + cmd.Get('Z', 0)
	}

	if cmd.Has('E') {
		var deRequested float64
		if d.state.AbsoluteE {
			deRequested = cmd.Get('E', cur.E) - cur.E
		} else {
			deRequested = cmd.Get('E', 0)
		}
		target.E = cur.E + deRequested*d.state.FlowFactor
	}

	return target
}

func (d *Driver) feedrate() float64 {
	return d.state.FeedRate * d.state.SpeedFactor
}

func (d *Driver) doMove(cmd *Command) error {
	cur := d.state.Position
	target := d.resolveTarget(cmd)

	mv := kinematics.New(cur, target, d.feedrate(), d.limits, d.state.Tool, d.accelOverride)
	d.state.Position = target
	if mv == nil {
		return nil
	}
	mv.Kind = d.state.CurrentKind
	mv.Layer = d.state.CurrentLayer
	mv.SourceLine = d.lineNo
	return d.plan.Append(mv)
}

func (d *Driver) doArc(cmd *Command, clockwise bool) error {
	cur := d.state.Position
	target := d.resolveTarget(cmd)

	i := cmd.Get('I', 0)
	j := cmd.Get('J', 0)

	points, err := tessellateArc(cur, target, i, j, clockwise, d.maxChordDeviation)
	if err != nil {
		if pe, ok := err.(*errs.ParseError); ok {
			pe.Line = cmd.LineNo
		}
		return err
	}

	prev := cur
	feed := d.feedrate()
	for _, pt := range points {
		mv := kinematics.New(prev, pt, feed, d.limits, d.state.Tool, d.accelOverride)
		prev = pt
		if mv == nil {
			continue
		}
		mv.Kind = d.state.CurrentKind
		mv.Layer = d.state.CurrentLayer
		mv.SourceLine = d.lineNo
		if err := d.plan.Append(mv); err != nil {
			return err
		}
	}
	d.state.Position = target
	return nil
}

// doDwell implements G4: a pause, which §3 lists alongside tool change and
// end-of-file as a sequence-boundary flush. The dwell's own duration is
// credited to the sequence it closes, not the one that follows.
func (d *Driver) doDwell(cmd *Command) error {
	if err := d.plan.Flush(); err != nil {
		return err
	}
	var seconds float64
	switch {
	case cmd.Has('P'):
		seconds = cmd.Get('P', 0) / 1000.0
	case cmd.Has('S'):
		seconds = cmd.Get('S', 0)
	}
	d.seq.AddExtraTime(seconds, "")
	d.seq.Close(d.lineNo)
	return nil
}

func (d *Driver) doSetPosition(cmd *Command) {
	cur := d.state.Position
	if cmd.Has('X') {
		cur.X = cmd.Get('X', 0)
	}
	if cmd.Has('Y') {
		cur.Y = cmd.Get('Y', 0)
	}
	if cmd.Has('Z') {
		cur.Z = cmd.Get('Z', 0)
	}
	if cmd.Has('E') {
		cur.E = cmd.Get('E', 0)
	}
	d.state.Position = cur
}

// doAccelOverride implements M204: S sets the override directly; P and T
// (print move / travel move accel) resolve to their minimum.
func (d *Driver) doAccelOverride(cmd *Command) {
	if cmd.Has('S') {
		d.accelOverride = cmd.Get('S', 0)
		return
	}
	if cmd.Has('P') || cmd.Has('T') {
		p := cmd.Get('P', d.limits.MaxAccel)
		t := cmd.Get('T', d.limits.MaxAccel)
		if p < t {
			d.accelOverride = p
		} else {
			d.accelOverride = t
		}
	}
}
