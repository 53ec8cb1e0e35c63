// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aquifer

import "github.com/dr-robertk/opm-simulators/ad"

// State holds the per-connection runtime vectors plus the cumulative flux,
// constructed once per aquifer at simulation start and mutated in place at
// well-defined lifecycle points (§3 Aquifer Runtime State).
type State struct {
	PressurePrev []ad.Scalar // previous-step water pressure, per connection
	PressureCurr []ad.Scalar // current water pressure, per connection
	Density      []ad.Scalar // current water density, per connection
	Inflow       []ad.Scalar // per-step inflow Qᵢ, per connection

	CumulativeFlux ad.Scalar // W, accumulated cumulative flux
	ViscosityW     float64   // effective aquifer water viscosity
	StepLength     float64   // Δt
	ElapsedTime    float64   // t, simulated elapsed time at step begin
}

// NewState allocates runtime state for n connections with m primary
// variables per AD scalar.
func NewState(n, m int) *State {
	s := &State{
		PressurePrev:   make([]ad.Scalar, n),
		PressureCurr:   make([]ad.Scalar, n),
		Density:        make([]ad.Scalar, n),
		Inflow:         make([]ad.Scalar, n),
		CumulativeFlux: ad.NewConst(0, m),
	}
	for i := 0; i < n; i++ {
		s.PressurePrev[i] = ad.NewConst(0, m)
		s.PressureCurr[i] = ad.NewConst(0, m)
		s.Density[i] = ad.NewConst(0, m)
		s.Inflow[i] = ad.NewConst(0, m)
	}
	return s
}
