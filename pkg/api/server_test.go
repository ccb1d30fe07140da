package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bsr2trip/pkg/audiotrip"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter()

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("GET %s body: %v", path, err)
		}
		if body["status"] != "healthy" {
			t.Errorf("GET %s status field = %q", path, body["status"])
		}
	}
}

func TestListOptions(t *testing.T) {
	r := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/options", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		SupportedKinds []string `json:"supported_kinds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.SupportedKinds) == 0 || body.SupportedKinds[0] != "note" {
		t.Errorf("supported_kinds = %v, want [note]", body.SupportedKinds)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/options", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestConvertMissingFile(t *testing.T) {
	r := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestConvert(t *testing.T) {
	archive := mapArchive(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "map.zip")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(archive); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	r := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Converted-Events"); got != "2" {
		t.Errorf("X-Converted-Events = %q, want 2", got)
	}
	doc, err := audiotrip.Parse(w.Body.Bytes())
	if err != nil {
		t.Fatalf("response is not an .ats document: %v", err)
	}
	if doc.Metadata.Title != "API Song" {
		t.Errorf("title = %q, want API Song", doc.Metadata.Title)
	}
	if len(doc.Choreographies.List) != 1 || len(doc.Choreographies.List[0].Data.Events) != 2 {
		t.Errorf("choreography shape = %+v", doc.Choreographies)
	}
}

func mapArchive(t *testing.T) []byte {
	t.Helper()
	const info = `{
		"_songName": "API Song",
		"_songAuthorName": "Artist",
		"_levelAuthorName": "Mapper",
		"_beatsPerMinute": 120,
		"_difficultyBeatmapSets": [{
			"_beatmapCharacteristicName": "Standard",
			"_difficultyBeatmaps": [{
				"_difficulty": "Expert",
				"_beatmapFilename": "Expert.dat",
				"_noteJumpMovementSpeed": 16
			}]
		}]
	}`
	const beatmap = `{
		"version": "3.2.0",
		"colorNotes": [
			{"b": 1, "x": 0, "y": 0, "c": 0, "d": 0},
			{"b": 2, "x": 3, "y": 2, "c": 1, "d": 8}
		]
	}`

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{"Info.dat": info, "Expert.dat": beatmap} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
