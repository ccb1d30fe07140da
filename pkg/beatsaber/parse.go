package beatsaber

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformed marks a structurally invalid source document. Loading
// never partially succeeds: a malformed file fails before any conversion
// work can start.
var ErrMalformed = errors.New("malformed beatmap document")

// ParseInfo parses Info.dat content.
func ParseInfo(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("%w: info: %v", ErrMalformed, err)
	}
	if info.BeatsPerMinute <= 0 {
		return Info{}, fmt.Errorf("%w: info: beats per minute %g must be positive", ErrMalformed, info.BeatsPerMinute)
	}
	if len(info.DifficultyBeatmapSets) == 0 {
		return Info{}, fmt.Errorf("%w: info: no difficulty beatmap sets", ErrMalformed)
	}
	return info, nil
}

// ParseMap parses a v3 difficulty beatmap.
func ParseMap(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.Version != "" && !strings.HasPrefix(m.Version, "3") {
		return nil, fmt.Errorf("%w: unsupported beatmap version %q", ErrMalformed, m.Version)
	}
	for i, ev := range m.BPMEvents {
		if ev.Beat < 0 {
			return nil, fmt.Errorf("%w: bpmEvents[%d] beat %g is negative", ErrMalformed, i, ev.Beat)
		}
		if ev.BPM <= 0 {
			return nil, fmt.Errorf("%w: bpmEvents[%d] bpm %g must be positive", ErrMalformed, i, ev.BPM)
		}
	}
	for i, n := range m.ColorNotes {
		if n.Beat < 0 {
			return nil, fmt.Errorf("%w: colorNotes[%d] beat %g is negative", ErrMalformed, i, n.Beat)
		}
	}
	for i, b := range m.BombNotes {
		if b.Beat < 0 {
			return nil, fmt.Errorf("%w: bombNotes[%d] beat %g is negative", ErrMalformed, i, b.Beat)
		}
	}
	for i, o := range m.Obstacles {
		if o.Beat < 0 || o.Duration < 0 {
			return nil, fmt.Errorf("%w: obstacles[%d] has negative beat or duration", ErrMalformed, i)
		}
	}
	return &m, nil
}

// findInfo locates Info.dat with a case-tolerant leading "I".
func findInfo(dir string) (string, error) {
	for _, name := range []string{"Info.dat", "info.dat"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no Info.dat or info.dat in %s", dir)
}

// Load reads a map folder: Info.dat plus every difficulty beatmap the
// first beatmap set references.
func Load(dir string) (*Level, error) {
	infoPath, err := findInfo(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, err
	}
	info, err := ParseInfo(data)
	if err != nil {
		return nil, err
	}

	lvl := &Level{Dir: dir, Info: info}
	for _, ref := range info.DifficultyBeatmapSets[0].DifficultyBeatmaps {
		mapData, err := os.ReadFile(filepath.Join(dir, ref.BeatmapFilename))
		if err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", ref.Difficulty, err)
		}
		m, err := ParseMap(mapData)
		if err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", ref.Difficulty, err)
		}
		lvl.Difficulties = append(lvl.Difficulties, Difficulty{
			Name:          ref.Difficulty,
			Filename:      ref.BeatmapFilename,
			NoteJumpSpeed: ref.NoteJumpMovementSpeed,
			Map:           m,
		})
	}
	if len(lvl.Difficulties) == 0 {
		return nil, fmt.Errorf("%w: info lists no difficulty beatmaps", ErrMalformed)
	}
	return lvl, nil
}
