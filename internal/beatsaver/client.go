// Package beatsaver fetches maps from the BeatSaver hosting service by
// BSR code and unpacks them into a working directory.
package beatsaver

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAPIURL is the public BeatSaver API.
const DefaultAPIURL = "https://api.beatsaver.com"

// Client talks to the BeatSaver API.
type Client struct {
	APIURL     string
	HTTPClient *http.Client
}

// New creates a client against the public API.
func New() *Client {
	return &Client{
		APIURL:     DefaultAPIURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// MapVersion is one uploaded revision of a map.
type MapVersion struct {
	Hash        string `json:"hash"`
	DownloadURL string `json:"downloadURL"`
}

// MapMetadata is the song identity BeatSaver reports.
type MapMetadata struct {
	SongName        string  `json:"songName"`
	SongAuthorName  string  `json:"songAuthorName"`
	LevelAuthorName string  `json:"levelAuthorName"`
	BPM             float64 `json:"bpm"`
}

// MapDetail is the subset of the map detail response the converter needs.
type MapDetail struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Metadata MapMetadata  `json:"metadata"`
	Versions []MapVersion `json:"versions"`
}

// MapDetail looks up a map by its BSR code.
func (c *Client) MapDetail(ctx context.Context, code string) (*MapDetail, error) {
	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return nil, fmt.Errorf("empty BSR code")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"/maps/id/"+code, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query BeatSaver: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no map with BSR code %q", code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BeatSaver returned status %d for code %q", resp.StatusCode, code)
	}
	var detail MapDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode map detail: %w", err)
	}
	if len(detail.Versions) == 0 {
		return nil, fmt.Errorf("map %q has no published versions", code)
	}
	return &detail, nil
}

// Download fetches the newest version's zip and extracts it into a
// folder under destDir. Returns the extracted folder and the map hash.
func (c *Client) Download(ctx context.Context, detail *MapDetail, destDir string) (string, string, error) {
	version := detail.Versions[0]
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, version.DownloadURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to download map: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("map download returned status %d", resp.StatusCode)
	}

	zipPath := filepath.Join(destDir, detail.ID+".zip")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", "", err
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return "", "", fmt.Errorf("failed to save map zip: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}
	defer func() { _ = os.Remove(zipPath) }()

	mapDir := filepath.Join(destDir, detail.ID)
	if err := Extract(zipPath, mapDir); err != nil {
		return "", "", err
	}
	return mapDir, version.Hash, nil
}

// Extract unpacks a map zip into destDir, rejecting entries that escape it.
func Extract(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open map zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, file := range r.File {
		target := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes destination", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		dst, err := os.Create(target)
		if err != nil {
			_ = src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		_ = src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to extract %q: %w", file.Name, err)
		}
	}
	return nil
}
