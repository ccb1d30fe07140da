// Package audiotrip models the Audio Trip .ats document layout and its
// serialization.
package audiotrip

// Event type codes used by choreography events.
const (
	EventGemLeft     = 1
	EventGemRight    = 2
	EventDrum        = 3
	EventDirGemLeft  = 5
	EventDirGemRight = 6
	EventDodgeLeft   = 7
	EventDodgeRight  = 8
	EventDodgeCenter = 9
)

// Fixed header values observed in shipped custom songs.
const (
	DefaultBeatDivision = 2
	DefaultGemRadius    = 1.0
	DefaultHandRadius   = 0.27000001072883608
	DefaultQuantizeSize = 0.10000000149011612
	ChoreographyID      = "cust_beat_saber_map"
)

// Document is a complete .ats file.
type Document struct {
	Metadata       Metadata         `json:"metadata"`
	Choreographies ChoreographyList `json:"choreographies"`
}

// ChoreographyList wraps the per-difficulty choreographies.
type ChoreographyList struct {
	List []Choreography `json:"list"`
}

// AuthorID identifies the map author on a platform.
type AuthorID struct {
	PlatformID  string `json:"platformID"`
	DisplayName string `json:"displayName"`
}

// FileRef is a Unity asset reference, zeroed for custom songs.
type FileRef struct {
	FileID int `json:"m_FileID"`
	PathID int `json:"m_PathID"`
}

// TempoSection is one stretch of constant tempo in song time.
type TempoSection struct {
	StartTimeInSeconds  float64 `json:"startTimeInSeconds"`
	BeatsPerMeasure     int     `json:"beatsPerMeasure"`
	BeatsPerMinute      float64 `json:"beatsPerMinute"`
	DoesStartNewMeasure bool    `json:"doesStartNewMeasure"`
}

// Metadata is the song-level header of an .ats document.
type Metadata struct {
	Custom                      bool           `json:"custom"`
	AuthorID                    AuthorID       `json:"authorID"`
	SongID                      string         `json:"songID"`
	Title                       string         `json:"title"`
	Artist                      string         `json:"artist"`
	Koreography                 FileRef        `json:"koreography"`
	Descriptor                  string         `json:"descriptor"`
	SceneName                   string         `json:"sceneName"`
	AvgBPM                      float64        `json:"avgBPM"`
	TempoSections               []TempoSection `json:"tempoSections"`
	SongEventTracks             []any          `json:"songEventTracks"`
	SongFilename                string         `json:"songFilename"`
	FirstBeatTimeInSeconds      float64        `json:"firstBeatTimeInSeconds"`
	SongEndTimeInSeconds        float64        `json:"songEndTimeInSeconds"`
	SongFullLengthInSeconds     float64        `json:"songFullLengthInSeconds"`
	SongShortStartTimeInSeconds float64        `json:"songShortStartTimeInSeconds"`
	SongShortStopTimeInSeconds  float64        `json:"songShortStopTimeInSeconds"`
	SongShortLengthInSeconds    float64        `json:"songShortLengthInSeconds"`
	SongStartFadeTime           float64        `json:"songStartFadeTime"`
	SongEndFadeTime             float64        `json:"songEndFadeTime"`
	PreviewStartInSeconds       float64        `json:"previewStartInSeconds"`
	PreviewDurationInSeconds    float64        `json:"previewDurationInSeconds"`
	SongStartBufferInSeconds    float64        `json:"songStartBufferInSeconds"`
	ChoreoJSONs                 []any          `json:"choreoJSONs"`
	AnimClips                   []any          `json:"animClips"`
	Speed                       float64        `json:"speed"`
	QuantizeSize                float64        `json:"quantizeSize"`
	IncludeInArcades            bool           `json:"includeInArcades"`
	SupportedModalitySets       int            `json:"supportedModalitySets"`
	DrumMedSFX                  string         `json:"drumMedSFX"`
	DrumMaxSFX                  string         `json:"drumMaxSFX"`
}

// BeatTime encodes a musical position as whole beat plus a rational
// remainder.
type BeatTime struct {
	Beat        int `json:"beat"`
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Header is the per-choreography header.
type Header struct {
	ID                 string   `json:"id"`
	Descriptor         string   `json:"descriptor"`
	Name               string   `json:"name"`
	Metadata           string   `json:"metadata"`
	SpawnAheadTime     BeatTime `json:"spawnAheadTime"`
	GemSpeed           float64  `json:"gemSpeed"`
	GemRadius          float64  `json:"gemRadius"`
	HandRadius         float64  `json:"handRadius"`
	AnimClipPath       string   `json:"animClipPath"`
	BuildVersion       string   `json:"buildVersion"`
	RequiredModalities int      `json:"requiredModalities"`
	ChoreoType         int      `json:"choreoType"`
}

// Vec3 is a placement in choreography space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChoreoEvent is one placed object.
type ChoreoEvent struct {
	Type             int      `json:"type"`
	HasGuide         bool     `json:"hasGuide"`
	Time             BeatTime `json:"time"`
	BeatDivision     int      `json:"beatDivision"`
	Position         Vec3     `json:"position"`
	SubPositions     []Vec3   `json:"subPositions"`
	BroadcastEventID int      `json:"broadcastEventID"`
}

// ChoreoData holds the ordered event list of one choreography.
type ChoreoData struct {
	Events []ChoreoEvent `json:"events"`
}

// Choreography is one difficulty's worth of placed objects.
type Choreography struct {
	Header Header     `json:"header"`
	Data   ChoreoData `json:"data"`
}

// NewMetadata returns metadata pre-filled with the constants custom
// songs carry.
func NewMetadata() Metadata {
	return Metadata{
		Custom:                true,
		AuthorID:              AuthorID{PlatformID: "OC"},
		SceneName:             "Universal",
		TempoSections:         []TempoSection{},
		SongEventTracks:       []any{},
		ChoreoJSONs:           []any{},
		AnimClips:             []any{},
		QuantizeSize:          DefaultQuantizeSize,
		IncludeInArcades:      true,
		SupportedModalitySets: 2,
	}
}

// NewHeader returns a choreography header with the fixed gem geometry.
func NewHeader(name string, spawnAheadBeats int, gemSpeed float64) Header {
	return Header{
		ID:                 ChoreographyID,
		Name:               name,
		SpawnAheadTime:     BeatTime{Beat: spawnAheadBeats, Numerator: 0, Denominator: 1},
		GemSpeed:           gemSpeed,
		GemRadius:          DefaultGemRadius,
		HandRadius:         DefaultHandRadius,
		RequiredModalities: 2,
	}
}

// NewDocument wraps metadata into an empty document.
func NewDocument(md Metadata) *Document {
	return &Document{
		Metadata:       md,
		Choreographies: ChoreographyList{List: []Choreography{}},
	}
}

// DefaultTempoSections builds the two-section tempo block the editor
// expects: a lead-in section followed immediately by one that restarts
// the measure.
func DefaultTempoSections(bpm float64, beatsPerMeasure int) []TempoSection {
	return []TempoSection{
		{StartTimeInSeconds: 4.0, BeatsPerMeasure: beatsPerMeasure, BeatsPerMinute: bpm, DoesStartNewMeasure: false},
		{StartTimeInSeconds: 4.001, BeatsPerMeasure: beatsPerMeasure, BeatsPerMinute: bpm, DoesStartNewMeasure: true},
	}
}
