package audiotrip

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes an .ats document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse .ats document: %w", err)
	}
	return &doc, nil
}

// ReadFile loads an .ats document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
