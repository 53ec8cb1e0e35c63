// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/facade"
)

type fakeGrid struct{ nvars int }

func (g *fakeGrid) NumPrimaryVars() int                { return g.nvars }
func (g *fakeGrid) WaterPressure(cellID int) ad.Scalar  { return ad.NewConst(200, g.nvars) }
func (g *fakeGrid) WaterDensity(cellID int) ad.Scalar   { return ad.NewConst(1000, g.nvars) }
func (g *fakeGrid) WaterViscosity(cellID int) ad.Scalar { return ad.NewConst(0.001, g.nvars) }
func (g *fakeGrid) CellCenter(cellID int) [3]float64    { return [3]float64{0, 0, 1000} }
func (g *fakeGrid) CellFaces(cellID int) []facade.CellFace {
	return []facade.CellFace{{Index: 0, Dir: facade.XPlus, Area: 50}}
}

type fakeWaterPVT struct{}

func (fakeWaterPVT) Viscosity(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(0.001, pressure.NumVars())
}
func (fakeWaterPVT) Density(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(1000, pressure.NumVars())
}

func TestBuildTreeLinksGroupsAndWells(t *testing.T) {
	chk.PrintTitle("schedule: BuildTree wires groups and wells by name")

	d := &Data{
		Groups: []GroupSpec{
			{Name: "FIELD", EfficiencyFactor: 1.0},
			{Name: "PLATFORM", Parent: "FIELD", EfficiencyFactor: 0.95},
		},
		Wells: []WellSpec{
			{Name: "P1", Group: "PLATFORM", Type: "PRODUCER", EfficiencyFactor: 1.0, SelfIndex: 0,
				Production: ProductionSpec{ControlMode: "ORAT", GuideRate: 1}},
			{Name: "I1", Group: "PLATFORM", Type: "INJECTOR", EfficiencyFactor: 1.0, SelfIndex: 1,
				Injection: InjectionSpec{ControlMode: "RATE", InjectorType: "WATER", GuideRate: 1}},
		},
	}

	tree, err := BuildTree(d)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	if tree.Root == nil || tree.Root.Name() != "FIELD" {
		t.Fatalf("expected FIELD as root, got %v", tree.Root)
	}
	p1 := tree.Wells["P1"]
	if p1 == nil {
		t.Fatalf("expected well P1 to exist")
	}
	if p1.Parent() == nil || p1.Parent().Name() != "PLATFORM" {
		t.Fatalf("expected P1's parent to be PLATFORM, got %v", p1.Parent())
	}
	chk.Scalar(t, "P1 accumulated efficiency", 1e-12, p1.AccumulatedEfficiency(), 1.0*0.95*1.0)
	if !p1.IsProducer() {
		t.Fatalf("expected P1 to be a producer")
	}
	if tree.Wells["I1"] == nil || !tree.Wells["I1"].IsInjector() {
		t.Fatalf("expected I1 to be an injector")
	}
}

func TestBuildTreeRejectsUnknownParent(t *testing.T) {
	chk.PrintTitle("schedule: BuildTree rejects a dangling group reference")

	d := &Data{Groups: []GroupSpec{{Name: "PLATFORM", Parent: "NOSUCHGROUP"}}}
	if _, err := BuildTree(d); err == nil {
		t.Fatalf("expected an error for an unknown parent group")
	}
}

func TestBuildAquiferConstructsEngine(t *testing.T) {
	chk.PrintTitle("schedule: BuildAquifer wires params, connections, and influence table")

	spec := AquiferSpec{
		ID: "AQ1",
		Params: []ParamSpec{
			{Name: "phi", Value: 0.2}, {Name: "Ct", Value: 1e-5}, {Name: "r0", Value: 500},
			{Name: "ka", Value: 100}, {Name: "c1", Value: 0.0085267146}, {Name: "c2", Value: 6.283},
			{Name: "h", Value: 20}, {Name: "theta", Value: 360}, {Name: "d0", Value: 1000},
		},
		WaterPVTID:  0,
		InfluenceID: 7,
		Temperature: 60,
		Connections: []ConnectionSpec{{CellID: 0, FaceTag: 1, InfluxCoeff: 1, InfluxMultiplier: 1}},
	}
	tables := map[int]InfluenceSpec{7: {ID: 7, TD: []float64{0, 1, 2, 3}, PD: []float64{0, 1, 2, 3}}}

	grid := &fakeGrid{nvars: 2}
	engine, err := BuildAquifer(spec, grid, fakeWaterPVT{}, tables)
	if err != nil {
		t.Fatalf("BuildAquifer failed: %v", err)
	}
	if engine.Connections == nil || len(engine.Connections.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %+v", engine.Connections)
	}
	chk.Scalar(t, "area fraction", 1e-12, engine.Connections.Connections[0].AreaFraction, 1.0)
}

func TestBuildAquiferRejectsUnknownInfluenceTable(t *testing.T) {
	chk.PrintTitle("schedule: BuildAquifer rejects a dangling influence-table reference")

	spec := AquiferSpec{ID: "AQ1", InfluenceID: 99}
	if _, err := BuildAquifer(spec, &fakeGrid{nvars: 1}, fakeWaterPVT{}, map[int]InfluenceSpec{}); err == nil {
		t.Fatalf("expected an error for an unknown influence table")
	}
}

func TestBuildCompletionValidatesSegmentTopology(t *testing.T) {
	chk.PrintTitle("schedule: BuildCompletion converts segment specs into a SegmentSet")

	ws := WellSpec{
		Name:    "P1",
		Gravity: 9.81,
		Segments: []SegmentSpec{
			{Index: 0, OutletSegment: -1, Type: "REGULAR", CrossArea: 1},
			{Index: 1, OutletSegment: 0, Type: "VALVE", ValveStatus: "SHUT", CrossArea: 1, Depth: 10},
		},
	}
	comp, err := BuildCompletion(ws)
	if err != nil {
		t.Fatalf("BuildCompletion failed: %v", err)
	}
	if comp.Segments.NumSegments() != 2 {
		t.Fatalf("expected 2 segments, got %d", comp.Segments.NumSegments())
	}
	if len(comp.State.Vars) != 2 {
		t.Fatalf("expected state sized for 2 segments, got %d", len(comp.State.Vars))
	}
}

func TestBuildCompletionWithNoSegmentsReturnsNil(t *testing.T) {
	chk.PrintTitle("schedule: a well with no declared segments has no completion")

	comp, err := BuildCompletion(WellSpec{Name: "P1"})
	if err != nil {
		t.Fatalf("BuildCompletion failed: %v", err)
	}
	if comp != nil {
		t.Fatalf("expected a nil completion for a well with no segments")
	}
}
