// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// blackoilsim loads a declarative well/group/aquifer schedule and runs one
// demonstration assembly step over its wells and aquifers, printing a
// convergence/diagnostic report. It is the schedule-driven counterpart of
// the teacher's root main.go, minus the MPI/mesh-solving plumbing that is
// out of scope here (the schedule carries wells and aquifers, not a grid).
package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/diagnostics"
	"github.com/dr-robertk/opm-simulators/facade"
	"github.com/dr-robertk/opm-simulators/mswell"
	"github.com/dr-robertk/opm-simulators/schedule"
	"github.com/dr-robertk/opm-simulators/wellgroup"
	"github.com/dr-robertk/opm-simulators/wellspec"
)

// demoGrid is a single-cell synthetic facade standing in for a live
// reservoir simulation's grid/state cache, used only to exercise the
// aquifer engine's Assemble step outside of a full reservoir run.
type demoGrid struct{}

func (demoGrid) NumPrimaryVars() int                { return 1 }
func (demoGrid) WaterPressure(cellID int) ad.Scalar  { return ad.NewVar(250, 0, 1) }
func (demoGrid) WaterDensity(cellID int) ad.Scalar   { return ad.NewConst(1000, 1) }
func (demoGrid) WaterViscosity(cellID int) ad.Scalar { return ad.NewConst(0.0005, 1) }
func (demoGrid) CellCenter(cellID int) [3]float64    { return [3]float64{0, 0, 2000} }
func (demoGrid) CellFaces(cellID int) []facade.CellFace {
	return []facade.CellFace{{Index: 0, Dir: facade.XPlus, Area: 100}}
}

type demoWaterPVT struct{}

func (demoWaterPVT) Viscosity(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(0.0005, pressure.NumVars())
}
func (demoWaterPVT) Density(tableIdx int, temperature, pressure ad.Scalar) ad.Scalar {
	return ad.NewConst(1000, pressure.NumVars())
}

type demoJacobian struct{ n int }

func (j *demoJacobian) AddToBlock(rowCell, colCell, eq, variable int, x float64) { j.n++ }

type demoResidual struct{ rows map[[2]int]float64 }

func newDemoResidual() *demoResidual { return &demoResidual{rows: map[[2]int]float64{}} }
func (r *demoResidual) AddToRow(cell, eq int, x float64) {
	r.rows[[2]int{cell, eq}] += x
}

// fixedBHPControl pins the top segment's pressure row to a target BHP, the
// simplest usable ControlEquation for a schedule-validation run.
type fixedBHPControl struct{ target float64 }

func (c fixedBHPControl) Residual(top mswell.PrimaryVars) ad.Scalar {
	return top.Pressure.SubFloat(c.target)
}

type demoMixturePVT struct{}

func (demoMixturePVT) MixtureDensity(pressure, waterFraction, gasFraction ad.Scalar) ad.Scalar {
	return ad.NewConst(900, pressure.NumVars())
}

type demoRateSource struct{}

func (demoRateSource) BHP(wellIndex int) float64                              { return 200 }
func (demoRateSource) ReservoirRate(wellIndex int, phase wellspec.Phase) float64 { return 0 }
func (demoRateSource) SurfaceRate(wellIndex int, phase wellspec.Phase) float64  { return 0 }

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	verbose := io.ArgToBool(1, true)
	dir, fn := filepath.Split(fnamepath)

	if verbose {
		io.PfWhite("\nblackoilsim -- fully-implicit black-oil well/group/aquifer core\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"schedule file path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	data, err := schedule.ReadSchedule(dir, fn)
	if err != nil {
		chk.Panic("failed to read schedule: %v", err)
	}

	tree, err := schedule.BuildTree(data)
	if err != nil {
		chk.Panic("failed to build well/group tree: %v", err)
	}
	if verbose && tree.Root != nil {
		io.Pfcyan("groups+wells loaded: root=%q, %d wells\n", tree.Root.Name(), tree.Root.NumberOfLeafNodes())
	}

	src := demoRateSource{}
	if tree.Root != nil {
		var summed wellgroup.WellPhasesSummed
		ok, err := tree.Root.ConditionsMet(src, &summed)
		if err != nil {
			chk.Panic("group conditions check failed: %v", err)
		}
		if verbose {
			io.Pf("group conditions met: %v\n", ok)
		}
	}

	for _, ws := range data.Wells {
		comp, err := schedule.BuildCompletion(ws)
		if err != nil {
			chk.Panic("failed to build completion for well %q: %v", ws.Name, err)
		}
		if comp == nil {
			continue
		}
		eval := mswell.NewEvaluator(comp.Segments, comp.State, comp.Gravity, fixedBHPControl{target: 200})
		eval.UpdateDerivedQuantities(demoMixturePVT{})

		jac, res := &demoJacobian{}, newDemoResidual()
		if _, err := eval.AssembleStep(jac, res); err != nil {
			chk.Panic("failed to assemble well %q: %v", ws.Name, err)
		}
		if verbose {
			io.Pforan("well %q: %d segments assembled, %d jacobian entries\n", ws.Name, comp.Segments.NumSegments(), jac.n)
		}
	}

	influenceTables := map[int]schedule.InfluenceSpec{}
	for _, aq := range data.Aquifers {
		influenceTables[aq.InfluenceID] = schedule.InfluenceSpec{ID: aq.InfluenceID, TD: []float64{0, 1, 2, 5, 10}, PD: []float64{0, 0.8, 1.4, 2.5, 3.8}}
	}
	for _, aq := range data.Aquifers {
		engine, err := schedule.BuildAquifer(aq, demoGrid{}, demoWaterPVT{}, influenceTables)
		if err != nil {
			chk.Panic("failed to build aquifer %q: %v", aq.ID, err)
		}
		engine.BeforeStep(demoGrid{})
		jac, res := &demoJacobian{}, newDemoResidual()
		if err := engine.Assemble(demoGrid{}, 0, 86400, jac, res); err != nil {
			chk.Panic("failed to assemble aquifer %q: %v", aq.ID, err)
		}
		engine.AfterStep()
		if verbose {
			io.Pfyel("aquifer %q: %d connections, cumulative flux %g\n", aq.ID, len(engine.Connections.Connections), engine.State.CumulativeFlux.Value())
		}
		if err := diagnostics.PlotInfluenceFit(engine.Table, io.Sf("%s-influence.png", aq.ID)); err != nil && verbose {
			io.PfRed("warning: failed to render influence-fit plot for %q: %v\n", aq.ID, err)
		}
	}
}
