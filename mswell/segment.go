// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mswell implements the multi-segment well residual/convergence
// engine: segment topology and pressure-drop kernels, residual/Jacobian
// assembly in the teacher's per-segment-equation style, and a
// multi-criterion convergence classification (§4.4, §4.5).
package mswell

import "github.com/cpmech/gosl/chk"

// SegmentType selects which pressure-drop kernel a segment's equation uses.
type SegmentType int

const (
	Regular SegmentType = iota
	SpiralICD
	AutoICD
	Valve
)

// ValveStatus is the operating state of a Valve segment.
type ValveStatus int

const (
	ValveOpen ValveStatus = iota
	ValveShut
)

// Segment is one node of the tree rooted at the top segment (index 0, the
// wellhead). CrossArea and Depth feed the acceleration and hydrostatic
// pressure-drop kernels; the device fields are only meaningful for their
// matching SegmentType.
type Segment struct {
	Index         int
	CrossArea     float64
	Depth         float64 // cell-center depth, used by the hydrostatic drop
	Length        float64 // along-hole length to the outlet, used by friction
	Diameter      float64
	Roughness     float64
	OutletSegment int // -1 for the top segment
	Type          SegmentType

	// Spiral/Auto ICD device coefficients.
	ICDStrength       float64
	ICDScalingFactor  float64
	ICDDensityExp     float64
	ICDViscosityExp   float64

	// Valve device coefficients.
	ValveFlowCoeff float64
	ValveArea      float64
	ValveStatus    ValveStatus
}

// SegmentSet is the ordered segment list plus the inlet adjacency derived
// from each segment's OutletSegment (§3 Segment, invariant: the outlet
// graph is a tree rooted at 0).
type SegmentSet struct {
	Segments []Segment
	Inlets   [][]int // Inlets[s] = segments whose OutletSegment == s
}

// NewSegmentSet validates and builds a SegmentSet from a flat segment list
// indexed by position (segments[i].Index must equal i).
func NewSegmentSet(segments []Segment) (*SegmentSet, error) {
	if len(segments) == 0 {
		return nil, chk.Err("mswell: segment set must have at least one segment")
	}
	if segments[0].OutletSegment != -1 {
		return nil, chk.Err("mswell: segment 0 must be the top segment (outlet == -1), got %d", segments[0].OutletSegment)
	}
	inlets := make([][]int, len(segments))
	for i, s := range segments {
		if i != s.Index {
			return nil, chk.Err("mswell: segment at position %d has Index %d", i, s.Index)
		}
		if i == 0 {
			continue
		}
		if s.OutletSegment < 0 || s.OutletSegment >= len(segments) {
			return nil, chk.Err("mswell: segment %d has out-of-range outlet %d", i, s.OutletSegment)
		}
		if s.OutletSegment >= i {
			return nil, chk.Err("mswell: segment %d outlet %d must precede it in index order", i, s.OutletSegment)
		}
		inlets[s.OutletSegment] = append(inlets[s.OutletSegment], i)
	}
	return &SegmentSet{Segments: segments, Inlets: inlets}, nil
}

// NumSegments returns the number of segments.
func (ss *SegmentSet) NumSegments() int { return len(ss.Segments) }
