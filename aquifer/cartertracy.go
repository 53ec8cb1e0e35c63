// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aquifer

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/facade"
	"github.com/dr-robertk/opm-simulators/influence"
)

// WaterComponentEq is the equation index of the water-component residual
// row that the Carter-Tracy engine subtracts inflow from (§4.3 Assembly).
const WaterComponentEq = 0

// Engine is the Carter-Tracy analytical aquifer model: per-step inflow
// rates, cumulative flux, and Jacobian contribution for one aquifer (§4.3).
// It is reentrant per aquifer: each instance owns disjoint residual rows
// and Jacobian row-cells (its footprint), so distinct aquifers may be
// assembled concurrently (§5).
type Engine struct {
	Params      *Params
	Connections *ConnectionSet
	Table       *influence.Table
	State       *State

	gravity float64
}

// NewEngine constructs a Carter-Tracy engine for one aquifer: it derives
// connection geometry, equilibrates P0 if defaulted, evaluates the
// effective aquifer water viscosity via the PVT facade, and allocates
// runtime state.
func NewEngine(params *Params, fg facade.FluidGrid, pvt facade.WaterPVT, inputs []ConnectionInput, table *influence.Table, temperature ad.Scalar, gravity float64) (*Engine, error) {
	conns, err := InitializeConnections(fg, inputs)
	if err != nil {
		return nil, err
	}
	n := len(conns.Connections)
	m := fg.NumPrimaryVars()

	e := &Engine{Params: params, Connections: conns, Table: table, gravity: gravity}
	e.State = NewState(n, m)

	if params.P0Defaulted {
		params.P0 = e.equilibrate(fg)
	}

	pa0 := ad.NewConst(params.P0, m)
	muW := pvt.Viscosity(params.WaterPVTID, temperature, pa0)
	e.State.ViscosityW = muW.Value()

	return e, nil
}

// equilibrate computes p0 = mean_i [ (p_w,res(i) - ρw(i)·g·(depth_i - d0))·αᵢ ]
// per §4.3, used when the aquifer's initial pressure is defaulted.
func (e *Engine) equilibrate(fg facade.FluidGrid) float64 {
	var sum float64
	for _, c := range e.Connections.Connections {
		pRes := fg.WaterPressure(c.CellID).Value()
		rho := fg.WaterDensity(c.CellID).Value()
		sum += (pRes - rho*e.gravity*(c.CellDepth-e.Params.D0)) * c.AreaFraction
	}
	return sum / float64(len(e.Connections.Connections))
}

// BeforeStep snapshots the previous-step water pressure at each connected
// cell (§4.3 Step boundaries: before_step).
func (e *Engine) BeforeStep(fg facade.FluidGrid) {
	for i, c := range e.Connections.Connections {
		e.State.PressurePrev[i] = fg.WaterPressure(c.CellID).ClearDerivatives()
	}
}

// dpai returns the per-connection potential drop, constant inside the step:
// Δpₐᵢ(i) = p0 + ρw(i)·g·(depthᵢ - d0) - p_prev(i) (§4.3), using the
// previous-step water pressure and the current water density.
func (e *Engine) dpai(idx int, density ad.Scalar) float64 {
	c := e.Connections.Connections[idx]
	return e.Params.P0 + density.Value()*e.gravity*(c.CellDepth-e.Params.D0) - e.State.PressurePrev[idx].Value()
}

// calculateAB computes the per-connection a,b coefficients of §4.3.
func (e *Engine) calculateAB(idx int, t, dt float64, density ad.Scalar) (a, b float64, err error) {
	beta := e.Params.InfluxConstant()
	tc := e.Params.TimeConstant(e.State.ViscosityW)

	tD := t / tc
	tDPlusDt := (t + dt) / tc

	pItd, pItdPrime := e.Table.Eval(tDPlusDt)
	_ = pItdPrime // PItdprime in the source is coeff[1], same as pItdPrime for a line

	denom := pItd - tD*pItdPrime
	if denom <= 0 {
		return 0, 0, chk.Err("aquifer: fatal numerical fault: PItd - tD*PItd' = %g is nonpositive; influence fit is invalid", denom)
	}

	dp := e.dpai(idx, density)
	a = (1.0 / tc) * (beta*dp - e.State.CumulativeFlux.Value()*pItdPrime) / denom
	b = beta / (tc * denom)
	return a, b, nil
}

// Assemble recomputes current water pressure/density, the per-connection
// inflow rate (AD), and writes the residual/Jacobian contributions of
// §4.3. dt is the current step length, t is the simulated elapsed time at
// step begin.
func (e *Engine) Assemble(fg facade.FluidGrid, t, dt float64, jac facade.Jacobian, res facade.Residual) error {
	e.State.StepLength = dt
	e.State.ElapsedTime = t

	for idx, c := range e.Connections.Connections {
		pCurr := fg.WaterPressure(c.CellID)
		density := fg.WaterDensity(c.CellID)
		e.State.PressureCurr[idx] = pCurr
		e.State.Density[idx] = density

		a, b, err := e.calculateAB(idx, t, dt, density)
		if err != nil {
			return err
		}

		pPrevVal := e.State.PressurePrev[idx].Value()
		// Only p_w,curr carries derivatives; a, b, and p_w,prev are frozen.
		deltaP := pCurr.SubFloat(pPrevVal)
		q := deltaP.MulFloat(-b).AddFloat(a).MulFloat(c.AreaFraction)
		e.State.Inflow[idx] = q

		res.AddToRow(c.CellID, WaterComponentEq, -q.Value())
		for k := 0; k < q.NumVars(); k++ {
			jac.AddToBlock(c.CellID, c.CellID, WaterComponentEq, k, -q.Derivative(k))
		}
	}
	return nil
}

// AfterStep accumulates the cumulative flux W += Σᵢ Qᵢ·Δt (§4.3 Step
// boundaries: after_step).
func (e *Engine) AfterStep() {
	for _, q := range e.State.Inflow {
		e.State.CumulativeFlux = e.State.CumulativeFlux.Add(q.MulFloat(e.State.StepLength))
	}
}
