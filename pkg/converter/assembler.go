package converter

import (
	"fmt"
	"sort"

	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
)

// assemble merges the produced events into an ordered, validated
// choreography. Sort is stable by time with ties broken by the original
// input order, so output is deterministic no matter how rules ran.
func (c *Converter) assemble(d beatsaber.Difficulty, tempo Tempo, events []Event) (audiotrip.Choreography, error) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TimeSeconds != events[j].TimeSeconds {
			return events[i].TimeSeconds < events[j].TimeSeconds
		}
		return events[i].order < events[j].order
	})

	// Two gems on the same time and position can only come from a rule
	// bug; the source format keeps notes lane/layer-unique per beat.
	type placement struct {
		t float64
		p Position
	}
	seen := make(map[placement]bool, len(events))
	for _, e := range events {
		if e.Kind != DestGem {
			continue
		}
		key := placement{t: e.TimeSeconds, p: e.Position}
		if seen[key] {
			return audiotrip.Choreography{}, fmt.Errorf("%w: two gems at %.3fs (%.3f, %.3f)",
				ErrDuplicatePlacement, e.TimeSeconds, e.Position.X, e.Position.Y)
		}
		seen[key] = true
	}

	out := make([]audiotrip.ChoreoEvent, 0, len(events))
	for _, e := range events {
		ce, err := c.choreoEvent(e)
		if err != nil {
			return audiotrip.Choreography{}, err
		}
		out = append(out, ce)
	}

	header := audiotrip.NewHeader(d.Name, c.opts.SpawnAheadBeats, c.opts.gemSpeed(d.NoteJumpSpeed))
	return audiotrip.Choreography{
		Header: header,
		Data:   audiotrip.ChoreoData{Events: out},
	}, nil
}

// choreoEvent translates a core event into the destination's wire shape.
func (c *Converter) choreoEvent(e Event) (audiotrip.ChoreoEvent, error) {
	whole, num, den := BeatFraction(e.Beat, c.opts.BeatsPerMeasure)
	ce := audiotrip.ChoreoEvent{
		HasGuide:     false,
		Time:         audiotrip.BeatTime{Beat: whole, Numerator: num, Denominator: den},
		BeatDivision: audiotrip.DefaultBeatDivision,
		Position:     audiotrip.Vec3{X: e.Position.X, Y: e.Position.Y, Z: e.Position.Z},
		SubPositions: []audiotrip.Vec3{},
	}
	switch e.Kind {
	case DestGem:
		ce.Type = gemType(e, c.opts)
	case DestRail:
		ce.Type = gemType(e, c.opts)
		for _, p := range e.Path {
			ce.SubPositions = append(ce.SubPositions, audiotrip.Vec3{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z})
		}
	case DestDrum:
		ce.Type = audiotrip.EventDrum
	case DestWall:
		ce.Type = audiotrip.EventDodgeCenter
	default:
		return audiotrip.ChoreoEvent{}, fmt.Errorf("no destination encoding for kind %d", e.Kind)
	}
	return ce, nil
}

// gemType picks the destination type code from the hand assignment. With
// the directional toggle on, arrowed notes use the directional gem codes.
func gemType(e Event, opts Options) int {
	if opts.ArrowsAsDirectional && e.Swing.Ok {
		if e.Color == 0 {
			return audiotrip.EventDirGemLeft
		}
		return audiotrip.EventDirGemRight
	}
	if e.Color == 0 {
		return audiotrip.EventGemLeft
	}
	return audiotrip.EventGemRight
}

// documentMetadata fills the destination document header from the source
// level info.
func documentMetadata(lvl *beatsaber.Level, songID string, opts Options) audiotrip.Metadata {
	md := audiotrip.NewMetadata()
	md.AuthorID.DisplayName = lvl.Info.LevelAuthorName
	md.SongID = songID
	md.Title = lvl.Info.SongName
	md.Artist = lvl.Info.SongAuthorName
	md.AvgBPM = lvl.Info.BeatsPerMinute
	md.SongFilename = lvl.SongFileName()
	md.PreviewStartInSeconds = lvl.Info.PreviewStartTime
	md.PreviewDurationInSeconds = lvl.Info.PreviewDuration
	md.TempoSections = audiotrip.DefaultTempoSections(lvl.Info.BeatsPerMinute, opts.BeatsPerMeasure)
	return md
}

// songEnd estimates the song end from the last placed event. Audio
// decoding is out of scope, so a fixed tail is left after the final hit.
func songEnd(doc *audiotrip.Document) float64 {
	const tailSeconds = 5.0
	last := 0.0
	bpm := doc.Metadata.AvgBPM
	if bpm <= 0 {
		return 0
	}
	for _, ch := range doc.Choreographies.List {
		for _, e := range ch.Data.Events {
			beat := float64(e.Time.Beat)
			if e.Time.Denominator > 0 {
				beat += float64(e.Time.Numerator) / float64(e.Time.Denominator)
			}
			if t := beat * (60 / bpm); t > last {
				last = t
			}
		}
	}
	if last == 0 {
		return 0
	}
	return last + tailSeconds
}
