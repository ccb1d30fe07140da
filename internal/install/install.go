// Package install writes converted choreographies into the Audio Trip
// songs folder next to the copied song file.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
)

// Result names the files an install produced.
type Result struct {
	ATSPath  string
	SongPath string
}

// DefaultSongsDir is where Audio Trip looks for custom songs.
func DefaultSongsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "AppData", "LocalLow", "Kinemotik Studios", "Audio Trip", "Songs")
}

// Install writes the .ats document and copies the song file into a
// per-song folder under outputDir.
func Install(doc *audiotrip.Document, lvl *beatsaber.Level, outputDir string) (Result, error) {
	info := lvl.Info
	dir := filepath.Join(outputDir, audiotrip.FolderName(info.SongAuthorName, info.SongName, info.SongSubName, info.LevelAuthorName))
	fileName := audiotrip.FileName(info.SongAuthorName, info.SongName, info.SongSubName, info.LevelAuthorName)

	atsPath, err := audiotrip.WriteFile(doc, dir, fileName)
	if err != nil {
		return Result{}, err
	}

	res := Result{ATSPath: atsPath}
	if src := lvl.SongPath(); src != "" {
		dst := filepath.Join(dir, lvl.SongFileName())
		if err := copyFile(src, dst); err != nil {
			return Result{}, fmt.Errorf("failed to copy song file: %w", err)
		}
		res.SongPath = dst
	}
	return res, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
