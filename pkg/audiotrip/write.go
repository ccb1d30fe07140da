package audiotrip

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marshal serializes the document to compact JSON. Field order is fixed
// by the struct layout, so identical documents serialize byte-identically.
func Marshal(doc *Document) ([]byte, error) {
	for i := range doc.Choreographies.List {
		events := doc.Choreographies.List[i].Data.Events
		if events == nil {
			doc.Choreographies.List[i].Data.Events = []ChoreoEvent{}
		}
		for j := range events {
			if events[j].SubPositions == nil {
				events[j].SubPositions = []Vec3{}
			}
		}
	}
	return json.Marshal(doc)
}

// FileName builds the .ats file name from the song identity, matching the
// naming shipped custom songs use.
func FileName(artist, title, subName, mapper string) string {
	name := artist + " - " + title + " " + subName + " - " + mapper + ".ats"
	return sanitize(name)
}

// FolderName builds the per-song output folder name.
func FolderName(artist, title, subName, mapper string) string {
	return sanitize(artist + " • " + title + " " + subName + " - " + mapper)
}

// sanitize strips path separators and characters that break folder names
// on the platforms the destination runs on.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return strings.TrimSpace(r.Replace(name))
}

// WriteFile serializes the document into dir, creating parents as needed,
// and returns the written path.
func WriteFile(doc *Document, dir, fileName string) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}
