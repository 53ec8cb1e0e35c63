// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import "github.com/dr-robertk/opm-simulators/ad"

// Primary-variable and equation layout: 3 components (oil, water, gas) plus
// one pressure/control row per segment (§4.5).
const (
	NumComponents = 3
	NumWellEq     = NumComponents + 1 // mass eqs + SPres
	SPres         = NumComponents     // equation/variable index of the pressure row

	varWQTotal = 0
	varWFrac   = 1
	varGFrac   = 2
	varSPres   = SPres
)

// PrimaryVars are the four AD-carrying unknowns of one segment: total flow
// rate, water cut, gas cut, and pressure (§3 Segment Runtime State).
type PrimaryVars struct {
	WQTotal ad.Scalar
	WFrac   ad.Scalar
	GFrac   ad.Scalar
	Pressure ad.Scalar
}

// State is the per-segment runtime state recomputed at every residual
// evaluation: primary variables, upwinding choice, mixture density, mass
// rate, and the pressure-drop decomposition used for reporting.
type State struct {
	Vars []PrimaryVars

	Upwind   []int // Upwind[s] in {s, outlet(s)}
	Density  []ad.Scalar
	MassRate []ad.Scalar

	DropHydrostatic []float64
	DropFriction    []float64
	DropAcceleration []float64
}

// NewState allocates runtime state for n segments carrying m primary
// variables per AD scalar (m = NumWellEq × numberOfSegments in the global
// assembled system). Segment i's primary variables are seeded at global
// derivative indices i*NumWellEq + local offset.
func NewState(n, m int) *State {
	s := &State{
		Vars:             make([]PrimaryVars, n),
		Upwind:           make([]int, n),
		Density:          make([]ad.Scalar, n),
		MassRate:         make([]ad.Scalar, n),
		DropHydrostatic:  make([]float64, n),
		DropFriction:     make([]float64, n),
		DropAcceleration: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.Vars[i] = PrimaryVars{
			WQTotal:  ad.NewVar(0, varWQTotal+i*NumWellEq, m),
			WFrac:    ad.NewVar(0, varWFrac+i*NumWellEq, m),
			GFrac:    ad.NewVar(0, varGFrac+i*NumWellEq, m),
			Pressure: ad.NewVar(0, varSPres+i*NumWellEq, m),
		}
		s.Density[i] = ad.NewConst(0, m)
		s.MassRate[i] = ad.NewConst(0, m)
		s.Upwind[i] = i
	}
	return s
}
