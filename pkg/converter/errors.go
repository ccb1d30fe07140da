package converter

import (
	"errors"

	"bsr2trip/pkg/beatsaber"
)

// Sentinel errors for every failure class the conversion can produce.
// Callers match them with errors.Is; wrapped forms carry event context.
var (
	ErrInvalidTempo         = errors.New("invalid tempo")
	ErrInvalidBeat          = errors.New("invalid beat")
	ErrInvalidCutDirection  = errors.New("invalid cut direction")
	ErrInvalidLaneIndex     = errors.New("invalid lane index")
	ErrInvalidLayerIndex    = errors.New("invalid layer index")
	ErrUnsupportedEventKind = errors.New("unsupported event kind")
	ErrDuplicatePlacement   = errors.New("duplicate gem placement")
)

// ErrMalformedDocument is raised by the beatsaber package while loading;
// re-exported here so conversion callers only deal with one error surface.
var ErrMalformedDocument = beatsaber.ErrMalformed
