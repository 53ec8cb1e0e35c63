// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facade declares the narrow external contracts the core numerical
// engines (aquifer, multi-segment well, group control) are built against:
// grid/cell geometry lookups, the PVT/fluid-state evaluator, and the
// block-sparse Jacobian/residual storage primitive. These are consumed, not
// produced, by this repository; a host simulator supplies concrete
// implementations and dispatches a FluidGrid to each aquifer/well once at
// construction time (the runtime-selected-variant redesign of the source's
// compile-time TypeTag dispatch).
package facade

import "github.com/dr-robertk/opm-simulators/ad"

// FaceDir enumerates the six logically-Cartesian face directions of a cell.
type FaceDir int

const (
	XMinus FaceDir = iota
	XPlus
	YMinus
	YPlus
	ZMinus
	ZPlus
)

// FaceTagToDir maps the wire face-tag convention {0..5} used by Well Input
// and grid exports to a FaceDir, per §6.
func FaceTagToDir(tag int) FaceDir {
	switch tag {
	case 0:
		return XMinus
	case 1:
		return XPlus
	case 2:
		return YMinus
	case 3:
		return YPlus
	case 4:
		return ZMinus
	case 5:
		return ZPlus
	default:
		return XMinus
	}
}

// CellFace describes one face of a cell as exposed by the grid facade.
type CellFace struct {
	Index int     // compressed face index in the grid
	Dir   FaceDir // logically-Cartesian direction
	Area  float64 // face area
}

// FluidGrid is the external collaborator exposing cell-valued water-phase
// state and grid geometry. One implementation typically wraps a live
// reservoir simulation's intensive-quantities cache and grid; it is
// dispatched once, at aquifer/well-construction time.
type FluidGrid interface {
	// NumPrimaryVars returns the number of primary variables per cell (the
	// width N of every ad.Scalar returned by this facade).
	NumPrimaryVars() int

	// WaterPressure returns the current water-phase pressure at a cell, AD.
	WaterPressure(cellID int) ad.Scalar

	// WaterDensity returns the current water-phase density at a cell, AD.
	WaterDensity(cellID int) ad.Scalar

	// WaterViscosity returns the current water-phase viscosity at a cell, AD.
	WaterViscosity(cellID int) ad.Scalar

	// CellCenter returns the (x, y, z) coordinates of a cell center.
	CellCenter(cellID int) [3]float64

	// CellFaces returns the faces bounding a cell.
	CellFaces(cellID int) []CellFace
}

// WaterPVT is the external PVT evaluator for water, consumed when an
// aquifer needs viscosity/density at a trial (pressure, temperature) away
// from any live cell (e.g. the effective aquifer water viscosity that
// aquifer.NewEngine evaluates at the initial pressure).
type WaterPVT interface {
	// Viscosity returns water viscosity at the given table index, temperature
	// and pressure.
	Viscosity(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar

	// Density returns water density at the given table index, temperature
	// and pressure.
	Density(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar
}

// MixturePVT is the external PVT evaluator a multi-segment well uses to turn
// a segment's primary variables (pressure, water cut, gas cut) into a
// mixture density, consumed once per segment per assembly (§4.5 step 1).
type MixturePVT interface {
	// MixtureDensity returns the in-situ mixture density at the given
	// pressure, water fraction and gas fraction (oil fraction implied).
	MixtureDensity(pressure, waterFraction, gasFraction ad.Scalar) ad.Scalar
}

// Jacobian is the block-sparse Jacobian addressable as J[row][col][eq,var],
// consumed additively (no locking required, per §5). A concrete
// implementation typically wraps github.com/cpmech/gosl/la.Triplet.
type Jacobian interface {
	// AddToBlock adds x to the Jacobian entry for (rowCell, colCell) at
	// local (equation, variable) offsets within each cell's equation block.
	AddToBlock(rowCell, colCell, eq, variable int, x float64)
}

// Residual is the global residual vector addressable as R[cell][eq],
// consumed additively.
type Residual interface {
	// AddToRow adds x to the residual entry at (cell, eq).
	AddToRow(cell, eq int, x float64)
}
