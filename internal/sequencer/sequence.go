package sequencer

// Sequence is a closed record of one maximal run between flush boundaries
// (§4.6, §3): a tool change, dwell, sync command, or end of file marks the
// end of the current sequence and the opening of the next one — typically
// reported as an independent run, e.g. for multi-object prints.
type Sequence struct {
	Index     int
	StartLine int
	EndLine   int

	TotalTime  float64
	AccelTime  float64
	CruiseTime float64
	DecelTime  float64

	PerKind  map[string]float64
	PerLayer map[int]float64

	Distance        float64
	ExtrudeDistance float64
	ExtrudedVolume  float64
}

// accumulator is the live, mutable running total behind one Sequence. It
// is snapshotted into an immutable Sequence on close.
type accumulator struct {
	totalTime, accelTime, cruiseTime, decelTime KahanSum
	distance, extrudeDistance, extrudedVolume   KahanSum

	perKind  map[string]*KahanSum
	perLayer map[int]*KahanSum
}

func newAccumulator() *accumulator {
	return &accumulator{
		perKind:  make(map[string]*KahanSum),
		perLayer: make(map[int]*KahanSum),
	}
}

func (a *accumulator) kind(name string) *KahanSum {
	if name == "" {
		name = "Other"
	}
	k, ok := a.perKind[name]
	if !ok {
		k = &KahanSum{}
		a.perKind[name] = k
	}
	return k
}

func (a *accumulator) layer(n int) *KahanSum {
	k, ok := a.perLayer[n]
	if !ok {
		k = &KahanSum{}
		a.perLayer[n] = k
	}
	return k
}

func (a *accumulator) snapshot(index, startLine, endLine int) *Sequence {
	perKind := make(map[string]float64, len(a.perKind))
	for k, v := range a.perKind {
		perKind[k] = v.Value()
	}
	perLayer := make(map[int]float64, len(a.perLayer))
	for k, v := range a.perLayer {
		perLayer[k] = v.Value()
	}
	return &Sequence{
		Index:           index,
		StartLine:       startLine,
		EndLine:         endLine,
		TotalTime:       a.totalTime.Value(),
		AccelTime:       a.accelTime.Value(),
		CruiseTime:      a.cruiseTime.Value(),
		DecelTime:       a.decelTime.Value(),
		PerKind:         perKind,
		PerLayer:        perLayer,
		Distance:        a.distance.Value(),
		ExtrudeDistance: a.extrudeDistance.Value(),
		ExtrudedVolume:  a.extrudedVolume.Value(),
	}
}
