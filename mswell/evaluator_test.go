// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/wellspec"
)

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

type fakePVT struct{ density float64 }

func (p *fakePVT) MixtureDensity(pressure, waterFraction, gasFraction ad.Scalar) ad.Scalar {
	return ad.NewConst(p.density, pressure.NumVars())
}

type fixedBHPControl struct{ target float64 }

func (c fixedBHPControl) Residual(top PrimaryVars) ad.Scalar {
	return top.Pressure.SubFloat(c.target)
}

func TestNewSegmentSetValidatesTopology(t *testing.T) {
	chk.PrintTitle("mswell: segment set topology validation")

	if _, err := NewSegmentSet(nil); err == nil {
		t.Fatalf("expected error for empty segment list")
	}
	if _, err := NewSegmentSet([]Segment{{Index: 0, OutletSegment: 0}}); err == nil {
		t.Fatalf("expected error for top segment with non -1 outlet")
	}

	segs := []Segment{
		{Index: 0, OutletSegment: -1},
		{Index: 1, OutletSegment: 0},
		{Index: 2, OutletSegment: 0},
	}
	ss, err := NewSegmentSet(segs)
	if err != nil {
		t.Fatalf("NewSegmentSet failed: %v", err)
	}
	if len(ss.Inlets[0]) != 2 {
		t.Fatalf("expected segment 0 to have 2 inlets, got %d", len(ss.Inlets[0]))
	}
}

func TestShutValveProducesTrivialEquation(t *testing.T) {
	chk.PrintTitle("mswell: shut valve produces trivial WQTotal=0 equation")

	segs := []Segment{
		{Index: 0, OutletSegment: -1, Type: Regular, CrossArea: 1, Depth: 0},
		{Index: 1, OutletSegment: 0, Type: Valve, ValveStatus: ValveShut, CrossArea: 1, Depth: 10},
	}
	ss, err := NewSegmentSet(segs)
	if err != nil {
		t.Fatalf("NewSegmentSet failed: %v", err)
	}

	m := ss.NumSegments() * NumWellEq
	state := NewState(ss.NumSegments(), m)
	state.Vars[1].WQTotal = ad.NewVar(5, 1*NumWellEq+varWQTotal, m)

	eval := NewEvaluator(ss, state, 9.81, fixedBHPControl{target: 100})
	eval.UpdateDerivedQuantities(&fakePVT{density: 1000})

	jac, res := newFakeJacobian(), newFakeResidual()
	if _, err := eval.AssembleStep(jac, res); err != nil {
		t.Fatalf("AssembleStep failed: %v", err)
	}

	chk.Scalar(t, "shut valve row = WQTotal", 1e-12, res.rows[[2]int{1, SPres}], 5.0)
	chk.Scalar(t, "hydrostatic drop zeroed", 1e-12, state.DropHydrostatic[1], 0.0)
	chk.Scalar(t, "friction drop zeroed", 1e-12, state.DropFriction[1], 0.0)
	chk.Scalar(t, "acceleration drop zeroed", 1e-12, state.DropAcceleration[1], 0.0)

	if d := jac.entries[[4]int{1, 1, SPres, varWQTotal}]; d != 1 {
		t.Fatalf("expected d(WQTotal eq)/d(WQTotal) = 1, got %v", d)
	}
}

func TestAssembleStepRegularSegmentHydrostaticDrop(t *testing.T) {
	chk.PrintTitle("mswell: regular segment assembles hydrostatic pressure equation")

	segs := []Segment{
		{Index: 0, OutletSegment: -1, Type: Regular, CrossArea: 1, Depth: 0},
		{Index: 1, OutletSegment: 0, Type: Regular, CrossArea: 1, Depth: 10, Diameter: 0.1, Length: 10, Roughness: 0},
	}
	ss, err := NewSegmentSet(segs)
	if err != nil {
		t.Fatalf("NewSegmentSet failed: %v", err)
	}

	m := ss.NumSegments() * NumWellEq
	state := NewState(ss.NumSegments(), m)
	state.Vars[0].Pressure = ad.NewVar(200, 0*NumWellEq+varSPres, m)
	state.Vars[1].Pressure = ad.NewVar(100, 1*NumWellEq+varSPres, m)

	eval := NewEvaluator(ss, state, 10, fixedBHPControl{target: 200})
	eval.FrictionEnabled = false
	eval.AccelerationEnabled = false
	eval.UpdateDerivedQuantities(&fakePVT{density: 1000})

	jac, res := newFakeJacobian(), newFakeResidual()
	if _, err := eval.AssembleStep(jac, res); err != nil {
		t.Fatalf("AssembleStep failed: %v", err)
	}

	// hydro = density*g*(depth(1)-depth(0)) = 1000*10*10 = 100000.
	// E_p(1) = P(1) - hydro - P(0) = 100 - 100000 - 200.
	chk.Scalar(t, "hydrostatic drop", 1e-9, state.DropHydrostatic[1], 100000.0)
	chk.Scalar(t, "pressure residual", 1e-6, res.rows[[2]int{1, SPres}], 100.0-100000.0-200.0)
}

func TestGetWellConvergenceClassifiesSeverity(t *testing.T) {
	chk.PrintTitle("mswell: GetWellConvergence reports converged and NaN cases")

	segs := []Segment{
		{Index: 0, OutletSegment: -1, Type: Regular},
		{Index: 1, OutletSegment: 0, Type: Regular},
	}
	ss, err := NewSegmentSet(segs)
	if err != nil {
		t.Fatalf("NewSegmentSet failed: %v", err)
	}
	m := ss.NumSegments() * NumWellEq
	state := NewState(ss.NumSegments(), m)
	eval := NewEvaluator(ss, state, 9.81, fixedBHPControl{target: 0})

	tol := Tolerances{
		MaxResidualAllowed:                  1e6,
		ToleranceWells:                      1e-2,
		TolerancePressureMSWells:            1e-1,
		RelaxedInnerToleranceFlowMSWell:      1e-1,
		RelaxedInnerTolerancePressureMSWell: 1.0,
	}

	// A converged system: every residual well under tolerance.
	eval.segResidual[0] = []float64{0, 0, 0, 0}
	eval.segResidual[1] = []float64{0, 0, 0, 0}
	report, err := eval.GetWellConvergence(false, wellspec.BHPProd, wellspec.InjNone, []float64{1, 1, 1}, tol)
	if err != nil {
		t.Fatalf("GetWellConvergence failed: %v", err)
	}
	if !report.Converged() {
		t.Fatalf("expected converged report, got failures %+v", report.Failures)
	}

	// A mass-balance residual that is NaN must be reported NotANumber.
	eval.segResidual[1] = []float64{math.NaN(), 0, 0, 0}
	report, err = eval.GetWellConvergence(false, wellspec.BHPProd, wellspec.InjNone, []float64{1, 1, 1}, tol)
	if err != nil {
		t.Fatalf("GetWellConvergence failed: %v", err)
	}
	foundNaN := false
	for _, f := range report.Failures {
		if f.Kind == MassBalance && f.Severity == SeverityNotANumber {
			foundNaN = true
		}
	}
	if !foundNaN {
		t.Fatalf("expected a NotANumber mass-balance failure, got %+v", report.Failures)
	}
}
