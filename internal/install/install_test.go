package install

import (
	"os"
	"path/filepath"
	"testing"

	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
)

func TestInstall(t *testing.T) {
	mapDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(mapDir, "song.ogg"), []byte("audio bytes"), 0o644); err != nil {
		t.Fatalf("write song: %v", err)
	}

	lvl := &beatsaber.Level{
		Dir: mapDir,
		Info: beatsaber.Info{
			SongName:        "Title",
			SongAuthorName:  "Artist",
			LevelAuthorName: "Mapper",
			SongFilename:    "song.ogg",
		},
	}
	doc := audiotrip.NewDocument(audiotrip.NewMetadata())
	doc.Metadata.Title = "Title"

	outputDir := t.TempDir()
	res, err := Install(doc, lvl, outputDir)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if _, err := os.Stat(res.ATSPath); err != nil {
		t.Errorf("installed .ats missing: %v", err)
	}
	if filepath.Ext(res.ATSPath) != ".ats" {
		t.Errorf("ATSPath = %q, want .ats extension", res.ATSPath)
	}
	got, err := os.ReadFile(res.SongPath)
	if err != nil {
		t.Fatalf("copied song missing: %v", err)
	}
	if string(got) != "audio bytes" {
		t.Errorf("copied song content = %q", got)
	}
	if filepath.Dir(res.ATSPath) != filepath.Dir(res.SongPath) {
		t.Errorf(".ats and song installed in different folders: %q vs %q", res.ATSPath, res.SongPath)
	}

	back, err := audiotrip.ReadFile(res.ATSPath)
	if err != nil {
		t.Fatalf("read back .ats: %v", err)
	}
	if back.Metadata.Title != "Title" {
		t.Errorf("installed title = %q", back.Metadata.Title)
	}
}

func TestInstallWithoutSongFile(t *testing.T) {
	lvl := &beatsaber.Level{
		Dir: t.TempDir(),
		Info: beatsaber.Info{
			SongName:        "Title",
			SongAuthorName:  "Artist",
			LevelAuthorName: "Mapper",
		},
	}
	doc := audiotrip.NewDocument(audiotrip.NewMetadata())

	res, err := Install(doc, lvl, t.TempDir())
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.SongPath != "" {
		t.Errorf("SongPath = %q, want empty when the level has no song file", res.SongPath)
	}
}
