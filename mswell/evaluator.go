// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/facade"
	"github.com/dr-robertk/opm-simulators/wellspec"
)

// ControlEquation supplies the top segment's control-equation residual: the
// expression that replaces E_p(0) under the well's active control mode
// (§4.4, "supplied by the well-control layer").
type ControlEquation interface {
	Residual(top PrimaryVars) ad.Scalar
}

// Evaluator assembles segment mass-balance and pressure equations into a
// well-local block-sparse system and reports convergence (§4.5).
type Evaluator struct {
	Segments *SegmentSet
	State    *State
	Gravity  float64

	FrictionEnabled     bool
	AccelerationEnabled bool

	Control ControlEquation

	// segResidual[s][eq] caches the last-assembled residual values for
	// GetWellConvergence, mirroring the teacher's retained linear system.
	segResidual [][]float64
}

// NewEvaluator constructs an Evaluator over a fixed segment topology.
func NewEvaluator(segments *SegmentSet, state *State, gravity float64, control ControlEquation) *Evaluator {
	n := segments.NumSegments()
	residual := make([][]float64, n)
	for i := range residual {
		residual[i] = make([]float64, NumWellEq)
	}
	return &Evaluator{Segments: segments, State: state, Gravity: gravity, Control: control, segResidual: residual}
}

// scatterJacobian distributes a scalar's nonzero derivatives to their
// owning segment's local block: global derivative index k belongs to
// segment k/NumWellEq at local offset k%NumWellEq, per the global
// primary-variable layout NewState establishes.
func scatterJacobian(jac facade.Jacobian, row, eq int, s ad.Scalar) {
	for k := 0; k < s.NumVars(); k++ {
		d := s.Derivative(k)
		if d == 0 {
			continue
		}
		jac.AddToBlock(row, k/NumWellEq, eq, k%NumWellEq, d)
	}
}

// phaseFraction returns the oil/water/gas split of one segment's primary
// variables: water and gas are explicit fractions, oil is the remainder.
func phaseFraction(v PrimaryVars, p wellspec.Phase) ad.Scalar {
	switch p {
	case wellspec.Water:
		return v.WFrac
	case wellspec.Gas:
		return v.GFrac
	default: // Oil
		return v.WFrac.Add(v.GFrac).Neg().AddFloat(1)
	}
}

// UpdateDerivedQuantities implements §4.5 assembly step 1: primary
// variables are turned into per-segment mixture density (via the PVT
// facade) and mass rate (the well's own total-rate primary variable).
// Call before UpdateUpwind/AssembleStep on every Newton iteration.
func (e *Evaluator) UpdateDerivedQuantities(pvt facade.MixturePVT) {
	for s, v := range e.State.Vars {
		e.State.MassRate[s] = v.WQTotal
		e.State.Density[s] = pvt.MixtureDensity(v.Pressure, v.WFrac, v.GFrac)
	}
}

// UpdateUpwind chooses, for every non-top segment, whether the self or
// outlet state supplies intensive quantities, by the sign of the mass
// flow toward the outlet (§4.4 Upwinding). Call after MassRate is refreshed
// and before assembling pressure-drop terms.
func (e *Evaluator) UpdateUpwind() {
	segs := e.Segments.Segments
	for s := 1; s < len(segs); s++ {
		if e.State.MassRate[s].Value() >= 0 {
			e.State.Upwind[s] = s
		} else {
			e.State.Upwind[s] = segs[s].OutletSegment
		}
	}
	e.State.Upwind[0] = 0
}

// upwindDensity returns segment s's upwinded density with derivatives
// cleared whenever the source is not s itself, so that cross-segment
// derivatives never contaminate a local expression (§4.1, §4.4).
func (e *Evaluator) upwindDensity(s int) ad.Scalar {
	src := e.State.Upwind[s]
	d := e.State.Density[src]
	if src != s {
		d = d.ClearDerivatives()
	}
	return d
}

// accelerationPressureLoss implements §4.4's acceleration-loss formula,
// including the sign flip for negative mass rate and the upwind
// derivative-clearing rule of upwindDensity (a density taken from a
// segment's outlet has its derivatives cleared).
func (e *Evaluator) accelerationPressureLoss(s int) ad.Scalar {
	segs := e.Segments.Segments
	area := segs[s].CrossArea
	massRate := e.State.MassRate[s]
	density := e.upwindDensity(s)

	loss := VelocityHead(area, massRate, density)
	for _, inlet := range e.Segments.Inlets[s] {
		inletArea := segs[inlet].CrossArea
		useArea := math.Max(inletArea, area)
		inletMassRate := e.State.MassRate[inlet]
		inletDensity := e.upwindDensity(inlet)
		loss = loss.Sub(VelocityHead(useArea, inletMassRate, inletDensity))
	}

	sign := -1.0
	if massRate.Value() < 0 {
		sign = 1.0
	}
	return loss.MulFloat(sign)
}

// assemblePressureEq builds the (possibly device-specific) pressure
// equation for segment s > 0 and writes it to the residual/Jacobian.
func (e *Evaluator) assemblePressureEq(s int, jac facade.Jacobian, res facade.Residual) error {
	segs := e.Segments.Segments
	seg := segs[s]
	v := e.State.Vars[s]
	outlet := seg.OutletSegment
	outletPressure := e.State.Vars[outlet].Pressure

	if seg.Type == Valve && seg.ValveStatus == ValveShut {
		e.State.DropHydrostatic[s] = 0
		e.State.DropFriction[s] = 0
		e.State.DropAcceleration[s] = 0
		eq := v.WQTotal
		res.AddToRow(s, SPres, eq.Value())
		scatterJacobian(jac, s, SPres, eq)
		e.segResidual[s][SPres] = eq.Value()
		return nil
	}

	pressureEq := v.Pressure
	density := e.upwindDensity(s)

	var deviceDrop ad.Scalar
	switch seg.Type {
	case Regular:
		hydro := HydrostaticDrop(density, seg.Depth-segs[outlet].Depth, e.Gravity)
		e.State.DropHydrostatic[s] = hydro.Value()
		pressureEq = pressureEq.Sub(hydro)
		if e.FrictionEnabled {
			fric := FrictionDrop(seg, e.State.MassRate[s], density)
			e.State.DropFriction[s] = fric.Value()
			pressureEq = pressureEq.Sub(fric)
		} else {
			e.State.DropFriction[s] = 0
		}
	case SpiralICD:
		deviceDrop = PressureDropSpiralICD(seg, e.State.MassRate[s], density)
	case AutoICD:
		deviceDrop = PressureDropAutoICD(seg, e.State.MassRate[s], density, density)
	case Valve:
		deviceDrop = PressureDropValve(seg, e.State.MassRate[s], density)
	default:
		return chk.Err("mswell: segment %d has unknown segment type %d", s, seg.Type)
	}
	if seg.Type != Regular {
		e.State.DropFriction[s] = deviceDrop.Value()
		e.State.DropHydrostatic[s] = 0
		pressureEq = pressureEq.Sub(deviceDrop)
	}

	pressureEq = pressureEq.Sub(outletPressure)

	if seg.Type == Regular && e.AccelerationEnabled {
		accel := e.accelerationPressureLoss(s)
		e.State.DropAcceleration[s] = accel.Value()
		pressureEq = pressureEq.Sub(accel)
	} else {
		e.State.DropAcceleration[s] = 0
	}

	res.AddToRow(s, SPres, pressureEq.Value())
	scatterJacobian(jac, s, SPres, pressureEq)
	e.segResidual[s][SPres] = pressureEq.Value()
	return nil
}

// assembleMassBalance builds the per-component continuity equation for
// segment s > 0: outflow toward the outlet equals the sum of inflow from
// its inlets (§4.5, assembly order step 2).
func (e *Evaluator) assembleMassBalance(s int, jac facade.Jacobian, res facade.Residual) {
	v := e.State.Vars[s]
	for p := wellspec.Phase(0); p < wellspec.NumPhases; p++ {
		out := v.WQTotal.Mul(phaseFraction(v, p))
		eq := out
		for _, inlet := range e.Segments.Inlets[s] {
			iv := e.State.Vars[inlet]
			eq = eq.Sub(iv.WQTotal.Mul(phaseFraction(iv, p)))
		}
		res.AddToRow(s, int(p), eq.Value())
		scatterJacobian(jac, s, int(p), eq)
		e.segResidual[s][p] = eq.Value()
	}
}

// AssembleStep runs the full assembly order of §4.5: derived quantities are
// assumed already refreshed into State by the caller (densities, mass
// rates), upwinding is recomputed, then every segment's mass-balance
// equations are assembled (including the top segment, whose own WQTotal is
// the well's surface rate), every non-top segment's pressure equation is
// assembled, and finally the top segment's control equation replaces its
// pressure row.
func (e *Evaluator) AssembleStep(jac facade.Jacobian, res facade.Residual) ([][]float64, error) {
	e.UpdateUpwind()

	for s := 0; s < e.Segments.NumSegments(); s++ {
		e.assembleMassBalance(s, jac, res)
	}
	for s := 1; s < e.Segments.NumSegments(); s++ {
		if err := e.assemblePressureEq(s, jac, res); err != nil {
			return nil, err
		}
	}

	top := e.State.Vars[0]
	ctrl := e.Control.Residual(top)
	res.AddToRow(0, SPres, ctrl.Value())
	scatterJacobian(jac, 0, SPres, ctrl)
	e.segResidual[0][SPres] = ctrl.Value()

	return e.segResidual, nil
}
