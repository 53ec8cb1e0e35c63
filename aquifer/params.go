// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aquifer implements the Carter-Tracy analytical aquifer model: a
// time-convolution boundary source that injects water into grid cells via
// an influence-function integral, coupled implicitly into the reservoir
// Jacobian.
package aquifer

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/google/uuid"

	"github.com/dr-robertk/opm-simulators/influence"
)

// Params holds the tuple of aquifer parameters (§3). All fields are set
// once at construction, except P0: when P0Defaulted is set, NewEngine
// overwrites P0 with the equilibrated initial pressure.
type Params struct {
	Phi          float64 // porosity
	Ct           float64 // total compressibility
	R0           float64 // inner radius
	Ka           float64 // permeability
	C1, C2       float64 // unit constants
	H            float64 // thickness
	Theta        float64 // subtended angle
	D0           float64 // datum depth
	P0Defaulted  bool    // whether P0 must be computed by equilibration
	P0           float64 // initial pressure (computed by NewEngine if P0Defaulted)
	WaterPVTID   int     // water-PVT table id
	InfluenceID  int     // influence table id
	AquiferID    string  // aquifer id
}

// NewParams builds Params from a named-parameter list, following the
// teacher's dbf.Params-driven model Init convention. Required parameters
// are: phi, Ct, r0, ka, c1, c2, h, theta, d0. "p0" is optional; when absent,
// P0Defaulted is set and P0 is computed later by NewEngine's equilibration.
func NewParams(prms dbf.Params, aquiferID string, waterPVTID, influenceID int) (*Params, error) {
	p := &Params{
		P0Defaulted: true,
		WaterPVTID:  waterPVTID,
		InfluenceID: influenceID,
		AquiferID:   aquiferID,
	}
	if p.AquiferID == "" {
		p.AquiferID = uuid.NewString()
	}
	have := map[string]bool{}
	for _, prm := range prms {
		have[prm.N] = true
		switch prm.N {
		case "phi":
			p.Phi = prm.V
		case "Ct":
			p.Ct = prm.V
		case "r0":
			p.R0 = prm.V
		case "ka":
			p.Ka = prm.V
		case "c1":
			p.C1 = prm.V
		case "c2":
			p.C2 = prm.V
		case "h":
			p.H = prm.V
		case "theta":
			p.Theta = prm.V
		case "d0":
			p.D0 = prm.V
		case "p0":
			p.P0 = prm.V
			p.P0Defaulted = false
		}
	}
	for _, required := range []string{"phi", "Ct", "r0", "ka", "c1", "c2", "h", "theta", "d0"} {
		if !have[required] {
			return nil, chk.Err("aquifer: missing required parameter %q", required)
		}
	}
	return p, nil
}

// InfluxConstant returns β = c2·h·θ·φ·Ct·r0² (§4.3).
func (p *Params) InfluxConstant() float64 {
	return p.C2 * p.H * p.Theta * p.Phi * p.Ct * p.R0 * p.R0
}

// TimeConstant returns Tc = μw·φ·Ct·r0² / (ka·c1) (§4.3). muW is the
// effective aquifer water viscosity computed once at initialisation.
func (p *Params) TimeConstant(muW float64) float64 {
	return muW * p.Phi * p.Ct * p.R0 * p.R0 / (p.Ka * p.C1)
}

// influenceTableFitter is satisfied by *influence.Table, as the assertion
// below checks at compile time. Engine holds a concrete *influence.Table,
// so the engine does not accept another fit through this interface.
type influenceTableFitter interface {
	Eval(tD float64) (pItd, pItdPrime float64)
}

var _ influenceTableFitter = (*influence.Table)(nil)
