package converter

import "fmt"

// Destination defaults. These mirror the values shipped maps use; the open
// question of deriving them from BPM or difficulty stays out of rule code
// by keeping them on Options.
const (
	DefaultLaneCount       = 4
	DefaultLayerCount      = 3
	DefaultBeatsPerMeasure = 4
	DefaultSpawnAheadBeats = 8
	DefaultGemSpeed        = 18.0
	DefaultNJSMultiplier   = 2.8
	DefaultXRange          = 1.5
	DefaultYRange          = 1.05
	DefaultYMin            = 0.4
	DefaultWobbleFactor    = 0.1

	// MaxLaneCount caps the supported lane cardinality. Wider maps are
	// rejected rather than squeezed into the destination space.
	MaxLaneCount = 4
)

// Options is the configuration surface of the conversion core.
type Options struct {
	// Strict makes any unsupported or invalid event abort the whole
	// conversion instead of being dropped with a report entry.
	Strict bool

	// LaneCount and LayerCount describe the source grid.
	LaneCount  int
	LayerCount int

	// BeatsPerMeasure bounds the denominator of encoded beat fractions.
	BeatsPerMeasure int

	// SpawnAheadBeats is the destination lead time between an object's
	// spawn and its hit beat.
	SpawnAheadBeats int

	// GemSpeed overrides the destination gem travel speed. Zero means
	// derive it from the difficulty's note jump speed times NJSMultiplier.
	GemSpeed      float64
	NJSMultiplier float64

	// Placement space.
	XRange float64
	YRange float64
	YMin   float64

	// Wobble factors add deterministic per-song jitter to placements so
	// converted maps do not look machine-aligned. Zero disables jitter.
	XWobbleFactor float64
	YWobbleFactor float64

	// ArrowsAsDirectional emits directional gems for arrowed notes
	// instead of collapsing them to plain gems.
	ArrowsAsDirectional bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		LaneCount:       DefaultLaneCount,
		LayerCount:      DefaultLayerCount,
		BeatsPerMeasure: DefaultBeatsPerMeasure,
		SpawnAheadBeats: DefaultSpawnAheadBeats,
		NJSMultiplier:   DefaultNJSMultiplier,
		XRange:          DefaultXRange,
		YRange:          DefaultYRange,
		YMin:            DefaultYMin,
		XWobbleFactor:   DefaultWobbleFactor,
		YWobbleFactor:   DefaultWobbleFactor,
	}
}

// Validate checks the options before any conversion work starts.
func (o Options) Validate() error {
	if o.LaneCount < 1 {
		return fmt.Errorf("lane count %d must be positive", o.LaneCount)
	}
	if o.LaneCount > MaxLaneCount {
		return fmt.Errorf("lane count %d exceeds supported maximum %d", o.LaneCount, MaxLaneCount)
	}
	if o.LayerCount < 2 {
		return fmt.Errorf("layer count %d must be at least 2", o.LayerCount)
	}
	if o.BeatsPerMeasure < 1 {
		return fmt.Errorf("beats per measure %d must be positive", o.BeatsPerMeasure)
	}
	if o.SpawnAheadBeats < 1 {
		return fmt.Errorf("spawn-ahead beats %d must be positive", o.SpawnAheadBeats)
	}
	if o.GemSpeed < 0 {
		return fmt.Errorf("gem speed %g must not be negative", o.GemSpeed)
	}
	if o.XRange <= 0 || o.YRange <= 0 {
		return fmt.Errorf("placement ranges must be positive (x %g, y %g)", o.XRange, o.YRange)
	}
	return nil
}

// gemSpeed resolves the effective gem speed for a difficulty with the
// given note jump speed.
func (o Options) gemSpeed(noteJumpSpeed float64) float64 {
	if o.GemSpeed > 0 {
		return o.GemSpeed
	}
	if noteJumpSpeed > 0 && o.NJSMultiplier > 0 {
		return noteJumpSpeed * o.NJSMultiplier
	}
	return DefaultGemSpeed
}
