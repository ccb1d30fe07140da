// Package converter transforms Beat Saber beatmaps into Audio Trip choreographies
package converter

// SourceKind is the closed set of Beat Saber event variants the
// classifier understands.
type SourceKind int

const (
	KindNote SourceKind = iota
	KindBomb
	KindObstacle
	KindChain
	KindArc
)

// String returns the kind name used in reports.
func (k SourceKind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindBomb:
		return "bomb"
	case KindObstacle:
		return "obstacle"
	case KindChain:
		return "chain"
	case KindArc:
		return "arc"
	default:
		return "unknown"
	}
}

// SourceEvent is one classified source map event, flattened to the fields
// the conversion rules need. Unused fields stay zero for kinds that do not
// carry them.
type SourceEvent struct {
	Kind  SourceKind
	Beat  float64
	Lane  int
	Layer int

	// Note fields
	Color        int // 0 = left hand, 1 = right hand
	CutDirection int

	// Obstacle fields
	DurationBeats float64
	Width         int
	Height        int

	// Chain/arc tail
	TailBeat  float64
	TailLane  int
	TailLayer int

	index int // original input order, assigned during collection
}

// DestKind is the closed set of destination object kinds.
type DestKind int

const (
	DestGem DestKind = iota
	DestRail
	DestDrum
	DestWall
)

// PathPoint is one sample of a rail polyline.
type PathPoint struct {
	TimeSeconds float64
	Position    Position
}

// Event is a placed destination object produced by a conversion rule.
// It lives only between rule invocation and assembly; the assembler owns
// the final ordered collection.
type Event struct {
	Kind        DestKind
	Beat        float64
	TimeSeconds float64
	Position    Position
	Swing       Swing       // gems only
	Color       int         // hand assignment carried from the source note
	Path        []PathPoint // rails only

	order int // input order of the producing source event, for stable ties
}
