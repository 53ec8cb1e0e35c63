// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aquifer

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/facade"
)

// ConnectionInput is one declarative (cellId, faceDirection, influxCoeff,
// influxMultiplier) entry from the Well Input schedule, before derived
// geometry is attached.
type ConnectionInput struct {
	CellID           int
	FaceDir          facade.FaceDir
	InfluxCoeff      float64
	InfluxMultiplier float64
}

// Connection is one aquifer-to-reservoir boundary connection after
// InitializeConnections has derived its face area, cell depth, and area
// fraction.
type Connection struct {
	CellID           int
	FaceDir          facade.FaceDir
	InfluxCoeff      float64
	InfluxMultiplier float64

	FaceArea    float64 // derived: area of the matching face
	CellDepth   float64 // derived: cell-center depth (z coordinate)
	AreaFraction float64 // derived: αᵢ = faceAreaᵢ / Σ faceAreaⱼ
}

// ConnectionSet is the ordered list of connections for one aquifer.
type ConnectionSet struct {
	Connections []Connection
}

// InitializeConnections derives per-connection face area, cell depth, and
// area fraction from the grid facade, establishing the Σαᵢ = 1 invariant.
// It is an error to call this with zero matching faces for any connection
// when the denominator of area fractions would be zero.
func InitializeConnections(fg facade.FluidGrid, inputs []ConnectionInput) (*ConnectionSet, error) {
	cs := &ConnectionSet{Connections: make([]Connection, len(inputs))}
	var totalArea float64
	for i, in := range inputs {
		c := Connection{
			CellID:           in.CellID,
			FaceDir:          in.FaceDir,
			InfluxCoeff:      in.InfluxCoeff,
			InfluxMultiplier: in.InfluxMultiplier,
		}
		center := fg.CellCenter(in.CellID)
		c.CellDepth = center[2]
		for _, face := range fg.CellFaces(in.CellID) {
			if face.Dir == in.FaceDir {
				c.FaceArea = face.Area
				break
			}
		}
		totalArea += c.FaceArea
		cs.Connections[i] = c
	}
	if len(inputs) > 0 && totalArea <= 0 {
		return nil, chk.Err("aquifer: no connected faces found; cannot compute area fractions (Σ face area = %g)", totalArea)
	}
	for i := range cs.Connections {
		cs.Connections[i].AreaFraction = cs.Connections[i].FaceArea / totalArea
	}
	return cs, nil
}

// SumAreaFractions returns Σαᵢ, which must equal 1 to numerical tolerance
// after InitializeConnections for any aquifer with at least one connected
// face (testable property, §8).
func (cs *ConnectionSet) SumAreaFractions() float64 {
	var sum float64
	for _, c := range cs.Connections {
		sum += c.AreaFraction
	}
	return sum
}
