package beatsaber

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testInfo = `{
	"_songName": "Test Song",
	"_songSubName": "",
	"_songAuthorName": "Test Artist",
	"_levelAuthorName": "Test Mapper",
	"_beatsPerMinute": 128,
	"_songFilename": "song.ogg",
	"_previewStartTime": 12,
	"_previewDuration": 10,
	"_difficultyBeatmapSets": [{
		"_beatmapCharacteristicName": "Standard",
		"_difficultyBeatmaps": [{
			"_difficulty": "Expert",
			"_beatmapFilename": "Expert.dat",
			"_noteJumpMovementSpeed": 16
		}]
	}]
}`

const testMap = `{
	"version": "3.2.0",
	"bpmEvents": [{"b": 16, "m": 90}],
	"colorNotes": [
		{"b": 1, "x": 0, "y": 0, "a": 0, "c": 0, "d": 1},
		{"b": 2.5, "x": 3, "y": 2, "a": 0, "c": 1, "d": 8}
	],
	"bombNotes": [{"b": 4, "x": 1, "y": 1}],
	"obstacles": [{"b": 5, "x": 0, "y": 0, "d": 2, "w": 1, "h": 3}],
	"sliders": [],
	"burstSliders": []
}`

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo([]byte(testInfo))
	if err != nil {
		t.Fatalf("ParseInfo() error = %v", err)
	}
	if info.SongName != "Test Song" || info.SongAuthorName != "Test Artist" {
		t.Errorf("song identity = %q/%q", info.SongName, info.SongAuthorName)
	}
	if info.BeatsPerMinute != 128 {
		t.Errorf("BeatsPerMinute = %g, want 128", info.BeatsPerMinute)
	}
	if len(info.DifficultyBeatmapSets) != 1 {
		t.Fatalf("len(DifficultyBeatmapSets) = %d, want 1", len(info.DifficultyBeatmapSets))
	}
	ref := info.DifficultyBeatmapSets[0].DifficultyBeatmaps[0]
	if ref.Difficulty != "Expert" || ref.BeatmapFilename != "Expert.dat" || ref.NoteJumpMovementSpeed != 16 {
		t.Errorf("difficulty ref = %+v", ref)
	}
}

func TestParseInfoErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{broken`},
		{"zero bpm", `{"_beatsPerMinute": 0, "_difficultyBeatmapSets": [{}]}`},
		{"negative bpm", `{"_beatsPerMinute": -60, "_difficultyBeatmapSets": [{}]}`},
		{"no beatmap sets", `{"_beatsPerMinute": 128, "_difficultyBeatmapSets": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInfo([]byte(tt.data)); !errors.Is(err, ErrMalformed) {
				t.Errorf("ParseInfo() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParseMap(t *testing.T) {
	m, err := ParseMap([]byte(testMap))
	if err != nil {
		t.Fatalf("ParseMap() error = %v", err)
	}
	if len(m.ColorNotes) != 2 || len(m.BombNotes) != 1 || len(m.Obstacles) != 1 {
		t.Errorf("counts = %d notes, %d bombs, %d obstacles",
			len(m.ColorNotes), len(m.BombNotes), len(m.Obstacles))
	}
	n := m.ColorNotes[1]
	if n.Beat != 2.5 || n.Lane != 3 || n.Layer != 2 || n.Color != 1 || n.CutDirection != CutAny {
		t.Errorf("note = %+v", n)
	}
	o := m.Obstacles[0]
	if o.Duration != 2 || o.Width != 1 || o.Height != 3 {
		t.Errorf("obstacle = %+v", o)
	}
	if len(m.BPMEvents) != 1 || m.BPMEvents[0].Beat != 16 || m.BPMEvents[0].BPM != 90 {
		t.Errorf("bpm events = %+v", m.BPMEvents)
	}
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `[broken`},
		{"v2 beatmap", `{"version": "2.6.0"}`},
		{"negative note beat", `{"version": "3.0.0", "colorNotes": [{"b": -1}]}`},
		{"negative bomb beat", `{"version": "3.0.0", "bombNotes": [{"b": -0.5}]}`},
		{"negative obstacle duration", `{"version": "3.0.0", "obstacles": [{"b": 1, "d": -2}]}`},
		{"negative bpm event beat", `{"version": "3.0.0", "bpmEvents": [{"b": -1, "m": 120}]}`},
		{"zero bpm event tempo", `{"version": "3.0.0", "bpmEvents": [{"b": 4, "m": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMap([]byte(tt.data)); !errors.Is(err, ErrMalformed) {
				t.Errorf("ParseMap() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "Info.dat", testInfo)
	writeTestFile(t, dir, "Expert.dat", testMap)

	lvl, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if lvl.Dir != dir {
		t.Errorf("Dir = %q, want %q", lvl.Dir, dir)
	}
	if len(lvl.Difficulties) != 1 {
		t.Fatalf("len(Difficulties) = %d, want 1", len(lvl.Difficulties))
	}
	d := lvl.Difficulties[0]
	if d.Name != "Expert" || d.NoteJumpSpeed != 16 {
		t.Errorf("difficulty = %q njs %g", d.Name, d.NoteJumpSpeed)
	}
	if d.Map == nil || len(d.Map.ColorNotes) != 2 {
		t.Errorf("difficulty map not parsed")
	}
}

func TestLoadLowercaseInfo(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "info.dat", testInfo)
	writeTestFile(t, dir, "Expert.dat", testMap)

	if _, err := Load(dir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoadMissingPieces(t *testing.T) {
	t.Run("no info", func(t *testing.T) {
		if _, err := Load(t.TempDir()); err == nil {
			t.Error("Load() of empty dir: want error")
		}
	})

	t.Run("missing beatmap file", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, dir, "Info.dat", testInfo)
		if _, err := Load(dir); err == nil {
			t.Error("Load() without difficulty file: want error")
		}
	})
}

func TestSongFileName(t *testing.T) {
	lvl := &Level{Info: Info{SongName: "Title", SongSubName: "Remix", SongAuthorName: "Artist"}}
	if got := lvl.SongFileName(); got != "Title - Artist Remix.ogg" {
		t.Errorf("SongFileName() = %q", got)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
