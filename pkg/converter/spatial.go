package converter

import (
	"fmt"
	"math"

	"bsr2trip/pkg/beatsaber"
)

// Position is a placement in the destination's choreography space.
// X is centered on the player, Y rises from the floor, Z is depth.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Swing is a preferred unit swing direction for a gem. Ok is false for
// "any direction" notes, which carry no preferred swing.
type Swing struct {
	X  float64
	Y  float64
	Ok bool
}

// Grid rescales the source's discrete lane/layer coordinates into the
// destination's continuous placement space. Pure and stateless: identical
// inputs always produce identical placements.
type Grid struct {
	LaneCount  int
	LayerCount int
	XRange     float64 // leftmost lane center to rightmost lane center
	YRange     float64 // bottom layer center to top layer center
	YMin       float64 // floor clearance under the bottom layer
}

// NewGrid builds the placement grid for the given options.
func NewGrid(opts Options) Grid {
	return Grid{
		LaneCount:  opts.LaneCount,
		LayerCount: opts.LayerCount,
		XRange:     opts.XRange,
		YRange:     opts.YRange,
		YMin:       opts.YMin,
	}
}

// XScale is the horizontal distance between adjacent lanes.
func (g Grid) XScale() float64 {
	return g.XRange / float64(g.LaneCount-1)
}

// YScale is the vertical distance between adjacent layers.
func (g Grid) YScale() float64 {
	return g.YRange / float64(g.LayerCount-1)
}

// Position maps a lane/layer cell to destination coordinates. The lane row
// is centered so that mirrored lanes produce mirrored X about 0. Out-of-range
// cells are errors, never clamped.
func (g Grid) Position(lane, layer int) (Position, error) {
	if lane < 0 || lane >= g.LaneCount {
		return Position{}, fmt.Errorf("%w: lane %d outside [0, %d)", ErrInvalidLaneIndex, lane, g.LaneCount)
	}
	if layer < 0 || layer >= g.LayerCount {
		return Position{}, fmt.Errorf("%w: layer %d outside [0, %d)", ErrInvalidLayerIndex, layer, g.LayerCount)
	}
	x := (float64(lane) - float64(g.LaneCount-1)/2) * g.XScale()
	y := g.YMin + (float64(layer)+0.5)*g.YScale()
	return Position{X: x, Y: y}, nil
}

// SwingFromCut maps the source's nine discrete cut directions to unit
// swing vectors. "Any" yields the no-preference sentinel. Unrecognized
// values are an error: conversion never guesses a direction.
func SwingFromCut(dir int) (Swing, error) {
	const diag = math.Sqrt2 / 2
	switch dir {
	case beatsaber.CutUp:
		return Swing{X: 0, Y: 1, Ok: true}, nil
	case beatsaber.CutDown:
		return Swing{X: 0, Y: -1, Ok: true}, nil
	case beatsaber.CutLeft:
		return Swing{X: -1, Y: 0, Ok: true}, nil
	case beatsaber.CutRight:
		return Swing{X: 1, Y: 0, Ok: true}, nil
	case beatsaber.CutUpLeft:
		return Swing{X: -diag, Y: diag, Ok: true}, nil
	case beatsaber.CutUpRight:
		return Swing{X: diag, Y: diag, Ok: true}, nil
	case beatsaber.CutDownLeft:
		return Swing{X: -diag, Y: -diag, Ok: true}, nil
	case beatsaber.CutDownRight:
		return Swing{X: diag, Y: -diag, Ok: true}, nil
	case beatsaber.CutAny:
		return Swing{}, nil
	default:
		return Swing{}, fmt.Errorf("%w: %d", ErrInvalidCutDirection, dir)
	}
}
