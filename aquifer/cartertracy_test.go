// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aquifer

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/facade"
	"github.com/dr-robertk/opm-simulators/influence"
)

// fakeGrid is a single-cell grid stub exposing fixed pressure/density so
// tests can drive the engine without a real reservoir.
type fakeGrid struct {
	pressure float64
	density  float64
	depth    float64
	faceArea float64
	faceDir  facade.FaceDir
	numVars  int
}

func (g *fakeGrid) NumPrimaryVars() int { return g.numVars }
func (g *fakeGrid) WaterPressure(cellID int) ad.Scalar {
	return ad.NewVar(g.pressure, 0, g.numVars)
}
func (g *fakeGrid) WaterDensity(cellID int) ad.Scalar  { return ad.NewConst(g.density, g.numVars) }
func (g *fakeGrid) WaterViscosity(cellID int) ad.Scalar { return ad.NewConst(1, g.numVars) }
func (g *fakeGrid) CellCenter(cellID int) [3]float64    { return [3]float64{0, 0, g.depth} }
func (g *fakeGrid) CellFaces(cellID int) []facade.CellFace {
	return []facade.CellFace{{Index: 0, Dir: g.faceDir, Area: g.faceArea}}
}

type fakePVT struct{ muW, rhoW float64 }

func (p *fakePVT) Viscosity(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(p.muW, pressure.NumVars())
}
func (p *fakePVT) Density(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(p.rhoW, pressure.NumVars())
}

type fakeJacobian struct {
	entries map[[4]int]float64
}

func newFakeJacobian() *fakeJacobian { return &fakeJacobian{entries: map[[4]int]float64{}} }
func (j *fakeJacobian) AddToBlock(rowCell, colCell, eq, variable int, x float64) {
	j.entries[[4]int{rowCell, colCell, eq, variable}] += x
}

type fakeResidual struct {
	rows map[[2]int]float64
}

func newFakeResidual() *fakeResidual { return &fakeResidual{rows: map[[2]int]float64{}} }
func (r *fakeResidual) AddToRow(cell, eq int, x float64) {
	r.rows[[2]int{cell, eq}] += x
}

func mustTable(tst *testing.T) *influence.Table {
	tab, err := influence.NewTable([]float64{0, 10}, []float64{0, 5})
	if err != nil {
		tst.Fatalf("NewTable failed: %v", err)
	}
	return tab
}

func TestEngineEquilibratedSingleConnectionZeroFlux(tst *testing.T) {
	chk.PrintTitle("aquifer: single-connection equilibration gives Q=0, W=0")

	grid := &fakeGrid{pressure: 200, density: 1000, depth: 1000, faceArea: 1, faceDir: facade.XPlus, numVars: 1}
	pvt := &fakePVT{muW: 1, rhoW: 1000}

	prms := dbf.Params{
		{N: "phi", V: 0.2}, {N: "Ct", V: 1e-5}, {N: "r0", V: 100}, {N: "ka", V: 100},
		{N: "c1", V: 1}, {N: "c2", V: 1}, {N: "h", V: 10}, {N: "theta", V: 6.2832}, {N: "d0", V: 1000},
	}
	params, err := NewParams(prms, "aq1", 0, 0)
	if err != nil {
		tst.Fatalf("NewParams failed: %v", err)
	}

	engine, err := NewEngine(params, grid, pvt, []ConnectionInput{{CellID: 0, FaceDir: facade.XPlus}}, mustTable(tst), ad.NewConst(300, 1), 9.81)
	if err != nil {
		tst.Fatalf("NewEngine failed: %v", err)
	}
	chk.Scalar(tst, "equilibrated P0", 1e-9, params.P0, 200.0)

	engine.BeforeStep(grid)
	jac, res := newFakeJacobian(), newFakeResidual()
	if err := engine.Assemble(grid, 0, 1, jac, res); err != nil {
		tst.Fatalf("Assemble failed: %v", err)
	}
	engine.AfterStep()

	chk.Scalar(tst, "Q", 1e-9, engine.State.Inflow[0].Value(), 0.0)
	chk.Scalar(tst, "W", 1e-9, engine.State.CumulativeFlux.Value(), 0.0)
}

func TestEngineCarterTracyPulseKnownCoefficients(tst *testing.T) {
	chk.PrintTitle("aquifer: Carter-Tracy pulse reproduces known a,b coefficients")

	grid := &fakeGrid{pressure: 0, density: 0, depth: 0, faceArea: 1, faceDir: facade.XPlus, numVars: 1}
	pvt := &fakePVT{muW: 100, rhoW: 0}

	prms := dbf.Params{
		{N: "phi", V: 1}, {N: "Ct", V: 1}, {N: "r0", V: 1}, {N: "ka", V: 1},
		{N: "c1", V: 1}, {N: "c2", V: 1}, {N: "h", V: 1}, {N: "theta", V: 1}, {N: "d0", V: 0},
		{N: "p0", V: 1},
	}
	params, err := NewParams(prms, "aq2", 0, 0)
	if err != nil {
		tst.Fatalf("NewParams failed: %v", err)
	}

	engine, err := NewEngine(params, grid, pvt, []ConnectionInput{{CellID: 0, FaceDir: facade.XPlus}}, mustTable(tst), ad.NewConst(0, 1), 0)
	if err != nil {
		tst.Fatalf("NewEngine failed: %v", err)
	}
	chk.Scalar(tst, "beta", 1e-12, params.InfluxConstant(), 1.0)
	chk.Scalar(tst, "Tc", 1e-12, params.TimeConstant(engine.State.ViscosityW), 100.0)

	engine.BeforeStep(grid)
	jac, res := newFakeJacobian(), newFakeResidual()
	if err := engine.Assemble(grid, 0, 10, jac, res); err != nil {
		tst.Fatalf("Assemble failed: %v", err)
	}

	// dp = p0 - p_prev = 1 - 0 = 1; denom = 0.05; a = dp/(tc*denom) = 0.2, b = beta/(tc*denom) = 0.2.
	// pCurr == pPrev == 0, so Q = a - b*0 = a = 0.2.
	chk.Scalar(tst, "Q", 1e-9, engine.State.Inflow[0].Value(), 0.2)
}

func TestEngineFatalFaultOnNonpositiveDenominator(tst *testing.T) {
	chk.PrintTitle("aquifer: detects nonpositive PItd - tD*PItd'")

	grid := &fakeGrid{pressure: 0, density: 0, depth: 0, faceArea: 1, faceDir: facade.XPlus, numVars: 1}
	pvt := &fakePVT{muW: 1, rhoW: 0}

	prms := dbf.Params{
		{N: "phi", V: 1}, {N: "Ct", V: 1}, {N: "r0", V: 1}, {N: "ka", V: 1},
		{N: "c1", V: 1}, {N: "c2", V: 1}, {N: "h", V: 1}, {N: "theta", V: 1}, {N: "d0", V: 0},
		{N: "p0", V: 0},
	}
	params, err := NewParams(prms, "aq3", 0, 0)
	if err != nil {
		tst.Fatalf("NewParams failed: %v", err)
	}

	// A table whose line has negative slope drives PItd - tD*PItd' negative
	// for large tD, which must be reported as an error rather than panic.
	tab, err := influence.NewTable([]float64{0, 1}, []float64{10, 0})
	if err != nil {
		tst.Fatalf("NewTable failed: %v", err)
	}

	engine, err := NewEngine(params, grid, pvt, []ConnectionInput{{CellID: 0, FaceDir: facade.XPlus}}, tab, ad.NewConst(0, 1), 0)
	if err != nil {
		tst.Fatalf("NewEngine failed: %v", err)
	}

	engine.BeforeStep(grid)
	jac, res := newFakeJacobian(), newFakeResidual()
	if err := engine.Assemble(grid, 1000, 1000, jac, res); err == nil {
		tst.Fatalf("expected fatal-fault error, got nil")
	}
}
