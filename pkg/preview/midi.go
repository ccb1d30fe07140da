// Package preview renders a converted choreography as a Standard MIDI
// File so a mapper can audition the rhythm before loading it in-game.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"bsr2trip/pkg/audiotrip"
)

// Percussion notes used for the click track (General MIDI drum map).
const (
	noteLeftGem  = 38 // snare
	noteRightGem = 40 // electric snare
	noteDrum     = 36 // kick
	noteOther    = 42 // closed hat
)

// Generator renders choreographies to MIDI.
type Generator struct {
	ticksPerQuarter uint16
}

// NewGenerator creates a Generator with standard resolution.
func NewGenerator() *Generator {
	return &Generator{ticksPerQuarter: 480}
}

// Generate builds a single-track SMF from one choreography of the
// document. Every placed object becomes a short percussion hit at its
// beat position.
func (g *Generator) Generate(doc *audiotrip.Document, choreoIndex int) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	if choreoIndex < 0 || choreoIndex >= len(doc.Choreographies.List) {
		return nil, fmt.Errorf("choreography index %d outside [0, %d)", choreoIndex, len(doc.Choreographies.List))
	}
	bpm := doc.Metadata.AvgBPM
	if bpm <= 0 {
		bpm = 120
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(g.ticksPerQuarter)

	var track smf.Track

	// Tempo meta event (FF 51 03) matching the source BPM.
	microsecondsPerBeat := uint32(60000000.0 / bpm)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	// 4/4 time signature.
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	type timedMsg struct {
		tick uint32
		off  bool
		msg  midi.Message
	}
	var msgs []timedMsg

	// A hit lasts 75% of a sixteenth, like a staccato click.
	noteLength := (uint32(g.ticksPerQuarter) / 4) * 3 / 4
	channel := uint8(9) // GM percussion channel

	for _, ev := range doc.Choreographies.List[choreoIndex].Data.Events {
		beat := float64(ev.Time.Beat)
		if ev.Time.Denominator > 0 {
			beat += float64(ev.Time.Numerator) / float64(ev.Time.Denominator)
		}
		tick := uint32(beat * float64(g.ticksPerQuarter))
		note := noteForType(ev.Type)
		msgs = append(msgs, timedMsg{tick: tick, msg: midi.NoteOn(channel, note, 100)})
		msgs = append(msgs, timedMsg{tick: tick + noteLength, off: true, msg: midi.NoteOff(channel, note)})
	}

	// Note-offs sort before note-ons on the same tick so repeated hits
	// never cancel each other.
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var currentTick uint32
	for _, m := range msgs {
		track.Add(m.tick-currentTick, m.msg)
		currentTick = m.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders a choreography and writes it to filename.
func (g *Generator) WriteFile(doc *audiotrip.Document, choreoIndex int, filename string) error {
	data, err := g.Generate(doc, choreoIndex)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func noteForType(eventType int) uint8 {
	switch eventType {
	case audiotrip.EventGemLeft, audiotrip.EventDirGemLeft:
		return noteLeftGem
	case audiotrip.EventGemRight, audiotrip.EventDirGemRight:
		return noteRightGem
	case audiotrip.EventDrum:
		return noteDrum
	default:
		return noteOther
	}
}
