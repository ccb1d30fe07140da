// Package beatsaber loads Beat Saber level folders: Info.dat metadata and
// the v3 difficulty beatmaps it references.
package beatsaber

// Cut direction codes used by colorNotes and sliders.
const (
	CutUp        = 0
	CutDown      = 1
	CutLeft      = 2
	CutRight     = 3
	CutUpLeft    = 4
	CutUpRight   = 5
	CutDownLeft  = 6
	CutDownRight = 7
	CutAny       = 8
)

// Info models the fields of Info.dat the converter consumes.
type Info struct {
	SongName              string          `json:"_songName"`
	SongSubName           string          `json:"_songSubName"`
	SongAuthorName        string          `json:"_songAuthorName"`
	LevelAuthorName       string          `json:"_levelAuthorName"`
	BeatsPerMinute        float64         `json:"_beatsPerMinute"`
	SongFilename          string          `json:"_songFilename"`
	PreviewStartTime      float64         `json:"_previewStartTime"`
	PreviewDuration       float64         `json:"_previewDuration"`
	DifficultyBeatmapSets []DifficultySet `json:"_difficultyBeatmapSets"`
}

// DifficultySet groups the difficulty beatmaps of one characteristic.
type DifficultySet struct {
	Characteristic     string          `json:"_beatmapCharacteristicName"`
	DifficultyBeatmaps []DifficultyRef `json:"_difficultyBeatmaps"`
}

// DifficultyRef points at one difficulty's beatmap file.
type DifficultyRef struct {
	Difficulty            string  `json:"_difficulty"`
	BeatmapFilename       string  `json:"_beatmapFilename"`
	NoteJumpMovementSpeed float64 `json:"_noteJumpMovementSpeed"`
}

// Map is a v3 difficulty beatmap.
type Map struct {
	Version      string        `json:"version"`
	BPMEvents    []BPMEvent    `json:"bpmEvents"`
	ColorNotes   []ColorNote   `json:"colorNotes"`
	BombNotes    []BombNote    `json:"bombNotes"`
	Obstacles    []Obstacle    `json:"obstacles"`
	Sliders      []Slider      `json:"sliders"`
	BurstSliders []BurstSlider `json:"burstSliders"`
}

// BPMEvent changes the tempo from its beat onward.
type BPMEvent struct {
	Beat float64 `json:"b"`
	BPM  float64 `json:"m"`
}

// ColorNote is a hittable note.
type ColorNote struct {
	Beat         float64 `json:"b"`
	Lane         int     `json:"x"`
	Layer        int     `json:"y"`
	AngleOffset  int     `json:"a"`
	Color        int     `json:"c"`
	CutDirection int     `json:"d"`
}

// BombNote is a mine the player must avoid.
type BombNote struct {
	Beat  float64 `json:"b"`
	Lane  int     `json:"x"`
	Layer int     `json:"y"`
}

// Obstacle is a wall with a duration and extent.
type Obstacle struct {
	Beat     float64 `json:"b"`
	Lane     int     `json:"x"`
	Layer    int     `json:"y"`
	Duration float64 `json:"d"`
	Width    int     `json:"w"`
	Height   int     `json:"h"`
}

// Slider is an arc between a head note and a tail note.
type Slider struct {
	Beat           float64 `json:"b"`
	Lane           int     `json:"x"`
	Layer          int     `json:"y"`
	Color          int     `json:"c"`
	CutDirection   int     `json:"d"`
	HeadMultiplier float64 `json:"mu"`
	TailBeat       float64 `json:"tb"`
	TailLane       int     `json:"tx"`
	TailLayer      int     `json:"ty"`
	TailCut        int     `json:"tc"`
	TailMultiplier float64 `json:"tmu"`
	MidAnchorMode  int     `json:"m"`
}

// BurstSlider is a chain: a head note followed by squished link segments.
type BurstSlider struct {
	Beat         float64 `json:"b"`
	Lane         int     `json:"x"`
	Layer        int     `json:"y"`
	Color        int     `json:"c"`
	CutDirection int     `json:"d"`
	TailBeat     float64 `json:"tb"`
	TailLane     int     `json:"tx"`
	TailLayer    int     `json:"ty"`
	SliceCount   int     `json:"sc"`
	Squish       float64 `json:"s"`
}

// Difficulty is one loaded difficulty: its Info.dat reference plus the
// parsed beatmap.
type Difficulty struct {
	Name          string
	Filename      string
	NoteJumpSpeed float64
	Map           *Map
}

// Level is a fully loaded map folder.
type Level struct {
	Dir          string
	Hash         string // map hash when known (set by the downloader)
	Info         Info
	Difficulties []Difficulty
}

// SongFileName is the destination-facing song file name, built the same
// way the destination names imported songs.
func (l *Level) SongFileName() string {
	return l.Info.SongName + " - " + l.Info.SongAuthorName + " " + l.Info.SongSubName + ".ogg"
}

// SongPath is the source song file location inside the level folder.
func (l *Level) SongPath() string {
	if l.Info.SongFilename == "" {
		return ""
	}
	return l.Dir + "/" + l.Info.SongFilename
}
