package converter

import "math/rand"

// Rule converts one classified source event into zero or more placed
// destination objects. Rules are pure functions of the event and context;
// anything they cannot express becomes an error, never an approximation.
type Rule func(ev SourceEvent, ctx *ruleContext) ([]Event, error)

// ruleContext carries the shared conversion utilities into rule
// invocations. It is built once per difficulty.
type ruleContext struct {
	tempo Tempo
	grid  Grid
	opts  Options

	// Deterministic placement jitter, seeded from the song ID so the same
	// map with the same options always converts byte-identically.
	rng     *rand.Rand
	xWobble float64
	yWobble float64
}

func (c *ruleContext) wobble(p Position) Position {
	if c.rng == nil {
		return p
	}
	p.X += c.xWobble * (c.rng.Float64()*2 - 1)
	p.Y += c.yWobble * (c.rng.Float64()*2 - 1)
	return p
}

// defaultRules is the dispatch table. Bombs, obstacles, chains and arcs
// have no settled destination mapping yet; leaving them unregistered makes
// each of them an independently addable entry instead of a silent default.
func defaultRules() map[SourceKind]Rule {
	return map[SourceKind]Rule{
		KindNote: noteToGem,
	}
}

// noteToGem is the reference rule: one source note becomes exactly one
// gem, timed by the tempo model, placed by the grid, oriented by its cut
// direction.
func noteToGem(ev SourceEvent, ctx *ruleContext) ([]Event, error) {
	seconds, err := ctx.tempo.BeatToSeconds(ev.Beat)
	if err != nil {
		return nil, err
	}
	pos, err := ctx.grid.Position(ev.Lane, ev.Layer)
	if err != nil {
		return nil, err
	}
	swing, err := SwingFromCut(ev.CutDirection)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Kind:        DestGem,
		Beat:        ev.Beat,
		TimeSeconds: seconds,
		Position:    ctx.wobble(pos),
		Swing:       swing,
		Color:       ev.Color,
	}}, nil
}
