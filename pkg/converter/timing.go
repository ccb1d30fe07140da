package converter

import (
	"fmt"
	"math"
	"sort"
)

// TempoSegment is one stretch of constant tempo starting at StartBeat.
type TempoSegment struct {
	StartBeat float64
	BPM       float64
}

// Tempo converts musical beat positions into absolute song time.
// A plain Tempo is a single constant-BPM line; WithSegments switches it
// to piecewise-linear accumulation over sorted tempo segments.
type Tempo struct {
	BPM             float64
	BeatsPerMeasure int
	OffsetSeconds   float64

	segments     []TempoSegment
	startSeconds []float64 // seconds at each segment start, relative to OffsetSeconds
}

// NewTempo creates a constant tempo.
func NewTempo(bpm float64, beatsPerMeasure int, offsetSeconds float64) (Tempo, error) {
	if bpm <= 0 {
		return Tempo{}, fmt.Errorf("%w: bpm %g must be positive", ErrInvalidTempo, bpm)
	}
	if beatsPerMeasure <= 0 {
		return Tempo{}, fmt.Errorf("%w: beats per measure %d must be positive", ErrInvalidTempo, beatsPerMeasure)
	}
	return Tempo{BPM: bpm, BeatsPerMeasure: beatsPerMeasure, OffsetSeconds: offsetSeconds}, nil
}

// WithSegments returns a copy of t that accumulates time over the given
// tempo segments. Segments must be sorted by start beat, begin at beat 0,
// and carry positive BPMs.
func (t Tempo) WithSegments(segments []TempoSegment) (Tempo, error) {
	if len(segments) == 0 {
		return t, nil
	}
	if segments[0].StartBeat != 0 {
		return Tempo{}, fmt.Errorf("%w: first segment must start at beat 0, got %g", ErrInvalidTempo, segments[0].StartBeat)
	}
	start := make([]float64, len(segments))
	for i, seg := range segments {
		if seg.BPM <= 0 {
			return Tempo{}, fmt.Errorf("%w: segment %d bpm %g must be positive", ErrInvalidTempo, i, seg.BPM)
		}
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if seg.StartBeat <= prev.StartBeat {
			return Tempo{}, fmt.Errorf("%w: segment starts must be strictly increasing (%g after %g)", ErrInvalidTempo, seg.StartBeat, prev.StartBeat)
		}
		start[i] = start[i-1] + (seg.StartBeat-prev.StartBeat)*(60/prev.BPM)
	}
	t.segments = segments
	t.startSeconds = start
	return t, nil
}

// BeatToSeconds converts a beat position to absolute seconds.
// Monotonic: beat1 < beat2 always yields a strictly earlier time.
func (t Tempo) BeatToSeconds(beat float64) (float64, error) {
	if beat < 0 || math.IsNaN(beat) {
		return 0, fmt.Errorf("%w: beat %g must be >= 0", ErrInvalidBeat, beat)
	}
	if len(t.segments) == 0 {
		if t.BPM <= 0 {
			return 0, fmt.Errorf("%w: bpm %g must be positive", ErrInvalidTempo, t.BPM)
		}
		return t.OffsetSeconds + beat*(60/t.BPM), nil
	}
	// Active segment: the last one starting at or before the beat. A beat
	// exactly on a boundary belongs to the new segment.
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].StartBeat > beat
	}) - 1
	seg := t.segments[i]
	return t.OffsetSeconds + t.startSeconds[i] + (beat-seg.StartBeat)*(60/seg.BPM), nil
}

// BeatFraction splits a beat position into a whole beat plus the closest
// fraction with a denominator no greater than maxDen, carrying overflow
// into the whole part. This mirrors how the destination format encodes
// event times as whole-beat + rational remainder.
func BeatFraction(beat float64, maxDen int) (whole, num, den int) {
	if maxDen < 1 {
		maxDen = 1
	}
	bestDen := 1
	bestErr := math.Abs(beat - math.Round(beat))
	for d := 2; d <= maxDen; d++ {
		// The residual is in units of 1/d; divide by d so denominators
		// compete on true approximation error. Ties keep the smaller one.
		e := math.Abs(beat*float64(d)-math.Round(beat*float64(d))) / float64(d)
		if e < bestErr-1e-12 {
			bestErr = e
			bestDen = d
		}
	}
	n := int(math.Round(beat * float64(bestDen)))
	whole = n / bestDen
	num = n % bestDen
	den = bestDen
	if num == 0 {
		den = 1
	}
	return whole, num, den
}
