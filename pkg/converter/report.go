package converter

import "fmt"

// Tally counts conversion outcomes for one source kind.
type Tally struct {
	Converted int
	Dropped   int
	Failed    int
}

// SkippedEvent identifies one event that did not convert, with enough
// source position to find it in the original map.
type SkippedEvent struct {
	Kind   SourceKind
	Beat   float64
	Lane   int
	Layer  int
	Reason string
}

// String renders the entry the way the CLI lists it.
func (s SkippedEvent) String() string {
	return fmt.Sprintf("%s at beat %g (lane %d, layer %d): %s", s.Kind, s.Beat, s.Lane, s.Layer, s.Reason)
}

// Report is the structured outcome of a conversion run. Every dropped or
// failed event is listed individually; nothing is omitted.
type Report struct {
	Counts  map[SourceKind]Tally
	Skipped []SkippedEvent
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Counts: make(map[SourceKind]Tally)}
}

func (r *Report) converted(kind SourceKind) {
	t := r.Counts[kind]
	t.Converted++
	r.Counts[kind] = t
}

func (r *Report) dropped(ev SourceEvent, reason string) {
	t := r.Counts[ev.Kind]
	t.Dropped++
	r.Counts[ev.Kind] = t
	r.Skipped = append(r.Skipped, SkippedEvent{
		Kind: ev.Kind, Beat: ev.Beat, Lane: ev.Lane, Layer: ev.Layer, Reason: reason,
	})
}

func (r *Report) failed(ev SourceEvent, err error) {
	t := r.Counts[ev.Kind]
	t.Failed++
	r.Counts[ev.Kind] = t
	r.Skipped = append(r.Skipped, SkippedEvent{
		Kind: ev.Kind, Beat: ev.Beat, Lane: ev.Lane, Layer: ev.Layer, Reason: err.Error(),
	})
}

// Merge folds another report into r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	for kind, t := range other.Counts {
		cur := r.Counts[kind]
		cur.Converted += t.Converted
		cur.Dropped += t.Dropped
		cur.Failed += t.Failed
		r.Counts[kind] = cur
	}
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// TotalConverted sums converted events across kinds.
func (r *Report) TotalConverted() int {
	n := 0
	for _, t := range r.Counts {
		n += t.Converted
	}
	return n
}

// TotalDropped sums dropped events across kinds.
func (r *Report) TotalDropped() int {
	n := 0
	for _, t := range r.Counts {
		n += t.Dropped
	}
	return n
}

// TotalFailed sums failed events across kinds.
func (r *Report) TotalFailed() int {
	n := 0
	for _, t := range r.Counts {
		n += t.Failed
	}
	return n
}
