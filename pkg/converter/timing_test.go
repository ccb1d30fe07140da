package converter

import (
	"errors"
	"math"
	"testing"
)

func TestBeatToSecondsConstantTempo(t *testing.T) {
	tempo, err := NewTempo(120, 4, 0)
	if err != nil {
		t.Fatalf("NewTempo() error = %v", err)
	}

	tests := []struct {
		name string
		beat float64
		want float64
	}{
		{"beat zero", 0, 0},
		{"whole beat", 5, 2.5},
		{"fractional beat", 2.5, 1.25},
		{"late beat", 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tempo.BeatToSeconds(tt.beat)
			if err != nil {
				t.Fatalf("BeatToSeconds(%g) error = %v", tt.beat, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BeatToSeconds(%g) = %g, want %g", tt.beat, got, tt.want)
			}
		})
	}
}

func TestBeatToSecondsOffset(t *testing.T) {
	tempo, err := NewTempo(60, 4, 1.5)
	if err != nil {
		t.Fatalf("NewTempo() error = %v", err)
	}
	got, err := tempo.BeatToSeconds(2)
	if err != nil {
		t.Fatalf("BeatToSeconds() error = %v", err)
	}
	if math.Abs(got-3.5) > 1e-9 {
		t.Errorf("BeatToSeconds(2) = %g, want 3.5", got)
	}
}

func TestBeatToSecondsErrors(t *testing.T) {
	if _, err := NewTempo(0, 4, 0); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("NewTempo(0) error = %v, want ErrInvalidTempo", err)
	}
	if _, err := NewTempo(-10, 4, 0); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("NewTempo(-10) error = %v, want ErrInvalidTempo", err)
	}
	if _, err := NewTempo(120, 0, 0); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("NewTempo beatsPerMeasure=0 error = %v, want ErrInvalidTempo", err)
	}

	tempo, _ := NewTempo(120, 4, 0)
	if _, err := tempo.BeatToSeconds(-1); !errors.Is(err, ErrInvalidBeat) {
		t.Errorf("BeatToSeconds(-1) error = %v, want ErrInvalidBeat", err)
	}
}

func TestBeatToSecondsMonotonic(t *testing.T) {
	tempo, _ := NewTempo(174, 4, 0.25)
	prev := -1.0
	for beat := 0.0; beat < 64; beat += 0.25 {
		got, err := tempo.BeatToSeconds(beat)
		if err != nil {
			t.Fatalf("BeatToSeconds(%g) error = %v", beat, err)
		}
		if got <= prev {
			t.Fatalf("BeatToSeconds(%g) = %g not after %g", beat, got, prev)
		}
		prev = got
	}
}

func TestBeatToSecondsSegments(t *testing.T) {
	base, _ := NewTempo(120, 4, 0)
	tempo, err := base.WithSegments([]TempoSegment{
		{StartBeat: 0, BPM: 120},
		{StartBeat: 4, BPM: 60},
	})
	if err != nil {
		t.Fatalf("WithSegments() error = %v", err)
	}

	tests := []struct {
		name string
		beat float64
		want float64
	}{
		{"first segment", 2, 1.0},
		{"boundary uses new segment", 4, 2.0},
		{"second segment", 6, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tempo.BeatToSeconds(tt.beat)
			if err != nil {
				t.Fatalf("BeatToSeconds(%g) error = %v", tt.beat, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BeatToSeconds(%g) = %g, want %g", tt.beat, got, tt.want)
			}
		})
	}
}

func TestWithSegmentsValidation(t *testing.T) {
	base, _ := NewTempo(120, 4, 0)

	if _, err := base.WithSegments([]TempoSegment{{StartBeat: 2, BPM: 120}}); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("segments not starting at 0: error = %v, want ErrInvalidTempo", err)
	}
	if _, err := base.WithSegments([]TempoSegment{{StartBeat: 0, BPM: 120}, {StartBeat: 4, BPM: 0}}); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("zero-bpm segment: error = %v, want ErrInvalidTempo", err)
	}
	if _, err := base.WithSegments([]TempoSegment{{StartBeat: 0, BPM: 120}, {StartBeat: 0, BPM: 90}}); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("non-increasing starts: error = %v, want ErrInvalidTempo", err)
	}
}

func TestBeatFraction(t *testing.T) {
	tests := []struct {
		name      string
		beat      float64
		maxDen    int
		wantWhole int
		wantNum   int
		wantDen   int
	}{
		{"whole beat", 3, 4, 3, 0, 1},
		{"half", 2.5, 4, 2, 1, 2},
		{"quarter", 2.25, 4, 2, 1, 4},
		{"three quarters", 2.75, 4, 2, 3, 4},
		{"third", 1 + 1.0/3, 4, 1, 1, 3},
		{"two fifths picks the closest bounded fraction", 0.4, 4, 0, 1, 3},
		{"three fifths picks the closest bounded fraction", 0.6, 4, 0, 2, 3},
		{"rounds up into next whole", 2.999, 4, 3, 0, 1},
		{"zero", 0, 4, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			whole, num, den := BeatFraction(tt.beat, tt.maxDen)
			if whole != tt.wantWhole || num != tt.wantNum || den != tt.wantDen {
				t.Errorf("BeatFraction(%g, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.beat, tt.maxDen, whole, num, den, tt.wantWhole, tt.wantNum, tt.wantDen)
			}
		})
	}
}
