package converter

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
)

// Converter drives the classify -> convert -> assemble pipeline.
type Converter struct {
	opts  Options
	rules map[SourceKind]Rule
}

// New creates a Converter after validating the options.
func New(opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{opts: opts, rules: defaultRules()}, nil
}

// Options returns the configuration the converter runs with.
func (c *Converter) Options() Options {
	return c.opts
}

// SupportedKinds lists the source kinds with a registered conversion rule.
func (c *Converter) SupportedKinds() []SourceKind {
	kinds := make([]SourceKind, 0, len(c.rules))
	for k := KindNote; k <= KindArc; k++ {
		if _, ok := c.rules[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// collectEvents flattens a parsed map into classified source events,
// preserving file order within each kind.
func collectEvents(m *beatsaber.Map) []SourceEvent {
	events := make([]SourceEvent, 0,
		len(m.ColorNotes)+len(m.BombNotes)+len(m.Obstacles)+len(m.BurstSliders)+len(m.Sliders))
	for _, n := range m.ColorNotes {
		events = append(events, SourceEvent{
			Kind: KindNote, Beat: n.Beat, Lane: n.Lane, Layer: n.Layer,
			Color: n.Color, CutDirection: n.CutDirection,
		})
	}
	for _, b := range m.BombNotes {
		events = append(events, SourceEvent{Kind: KindBomb, Beat: b.Beat, Lane: b.Lane, Layer: b.Layer})
	}
	for _, o := range m.Obstacles {
		events = append(events, SourceEvent{
			Kind: KindObstacle, Beat: o.Beat, Lane: o.Lane, Layer: o.Layer,
			DurationBeats: o.Duration, Width: o.Width, Height: o.Height,
		})
	}
	for _, s := range m.BurstSliders {
		events = append(events, SourceEvent{
			Kind: KindChain, Beat: s.Beat, Lane: s.Lane, Layer: s.Layer,
			Color: s.Color, CutDirection: s.CutDirection,
			TailBeat: s.TailBeat, TailLane: s.TailLane, TailLayer: s.TailLayer,
		})
	}
	for _, s := range m.Sliders {
		events = append(events, SourceEvent{
			Kind: KindArc, Beat: s.Beat, Lane: s.Lane, Layer: s.Layer,
			Color: s.Color, CutDirection: s.CutDirection,
			TailBeat: s.TailBeat, TailLane: s.TailLane, TailLayer: s.TailLayer,
		})
	}
	for i := range events {
		events[i].index = i
	}
	return events
}

// convertEvents dispatches every source event to its rule. In strict mode
// the first unsupported or invalid event aborts; otherwise it is recorded
// in the report and the rest of the map still converts.
func (c *Converter) convertEvents(events []SourceEvent, ctx *ruleContext, rep *Report) ([]Event, error) {
	var out []Event
	for _, ev := range events {
		rule, ok := c.rules[ev.Kind]
		if !ok {
			if c.opts.Strict {
				return nil, fmt.Errorf("%w: %s at beat %g", ErrUnsupportedEventKind, ev.Kind, ev.Beat)
			}
			rep.dropped(ev, "no conversion rule for "+ev.Kind.String())
			continue
		}
		produced, err := rule(ev, ctx)
		if err != nil {
			if c.opts.Strict {
				return nil, fmt.Errorf("%s at beat %g: %w", ev.Kind, ev.Beat, err)
			}
			rep.failed(ev, err)
			continue
		}
		for _, e := range produced {
			e.order = ev.index
			out = append(out, e)
		}
		rep.converted(ev.Kind)
	}
	return out, nil
}

// ConvertDifficulty converts one difficulty into an Audio Trip
// choreography. songID seeds the placement jitter so repeated runs are
// byte-identical.
func (c *Converter) ConvertDifficulty(d beatsaber.Difficulty, tempo Tempo, songID string) (audiotrip.Choreography, *Report, error) {
	rep := NewReport()
	if d.Map == nil {
		return audiotrip.Choreography{}, rep, fmt.Errorf("%w: difficulty %q has no parsed map", ErrMalformedDocument, d.Name)
	}

	grid := NewGrid(c.opts)
	ctx := &ruleContext{tempo: tempo, grid: grid, opts: c.opts}
	if c.opts.XWobbleFactor > 0 || c.opts.YWobbleFactor > 0 {
		ctx.rng = rand.New(rand.NewSource(seedFromString(songID)))
		ctx.xWobble = grid.XScale() * c.opts.XWobbleFactor
		ctx.yWobble = grid.YScale() * c.opts.YWobbleFactor
	}

	events, err := c.convertEvents(collectEvents(d.Map), ctx, rep)
	if err != nil {
		return audiotrip.Choreography{}, rep, err
	}

	choreo, err := c.assemble(d, tempo, events)
	if err != nil {
		return audiotrip.Choreography{}, rep, err
	}
	return choreo, rep, nil
}

// ConvertLevel converts every difficulty of a loaded level into a full
// .ats document. Strict mode returns no document on the first failure.
func (c *Converter) ConvertLevel(lvl *beatsaber.Level) (*audiotrip.Document, *Report, error) {
	base, err := NewTempo(lvl.Info.BeatsPerMinute, c.opts.BeatsPerMeasure, 0)
	if err != nil {
		return nil, nil, err
	}

	songID := c.songID(lvl)
	doc := audiotrip.NewDocument(documentMetadata(lvl, songID, c.opts))
	rep := NewReport()

	for _, d := range lvl.Difficulties {
		tempo, err := tempoForMap(base, d.Map)
		if err != nil {
			return nil, rep, fmt.Errorf("difficulty %q: %w", d.Name, err)
		}
		choreo, dr, err := c.ConvertDifficulty(d, tempo, songID)
		rep.Merge(dr)
		if err != nil {
			return nil, rep, fmt.Errorf("difficulty %q: %w", d.Name, err)
		}
		doc.Choreographies.List = append(doc.Choreographies.List, choreo)
	}

	doc.Metadata.SongEndTimeInSeconds = songEnd(doc)
	doc.Metadata.SongFullLengthInSeconds = doc.Metadata.SongEndTimeInSeconds
	return doc, rep, nil
}

// tempoForMap overlays a beatmap's mid-map BPM changes on the level's
// base tempo. Maps without BPM events keep the constant base tempo; a
// first event after beat 0 leaves the base tempo in effect until then.
func tempoForMap(base Tempo, m *beatsaber.Map) (Tempo, error) {
	if m == nil || len(m.BPMEvents) == 0 {
		return base, nil
	}
	segments := make([]TempoSegment, 0, len(m.BPMEvents)+1)
	if m.BPMEvents[0].Beat > 0 {
		segments = append(segments, TempoSegment{StartBeat: 0, BPM: base.BPM})
	}
	for _, ev := range m.BPMEvents {
		segments = append(segments, TempoSegment{StartBeat: ev.Beat, BPM: ev.BPM})
	}
	return base.WithSegments(segments)
}

// songID derives a stable identifier from the map identity and every
// option that changes conversion output, so the same map converted with
// different settings installs as a separate song.
func (c *Converter) songID(lvl *beatsaber.Level) string {
	h := sha256.New()
	if lvl.Hash != "" {
		fmt.Fprint(h, lvl.Hash)
	} else {
		fmt.Fprintf(h, "%s|%s|%s|%g", lvl.Info.SongName, lvl.Info.SongAuthorName, lvl.Info.LevelAuthorName, lvl.Info.BeatsPerMinute)
	}
	fmt.Fprintf(h, "|%v|%d|%d|%d|%d|%g|%g|%g|%g|%g|%g|%g|%v",
		c.opts.Strict, c.opts.LaneCount, c.opts.LayerCount, c.opts.BeatsPerMeasure,
		c.opts.SpawnAheadBeats, c.opts.XRange, c.opts.YRange, c.opts.YMin,
		c.opts.GemSpeed, c.opts.NJSMultiplier, c.opts.XWobbleFactor, c.opts.YWobbleFactor,
		c.opts.ArrowsAsDirectional)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// seedFromString folds a string into a 64-bit RNG seed.
func seedFromString(s string) int64 {
	digest := sha256.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint64(digest[:8]))
}
