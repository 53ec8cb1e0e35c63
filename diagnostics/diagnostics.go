// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics renders the charts an engineer checks when setting up
// or debugging a run: the influence-function line fit behind a Carter-Tracy
// aquifer, and the Newton iteration's residual-norm history. It plays the
// role the teacher's mdl/retention/plot.go and mdl/porous/plotting.go play
// for material-model sanity checks, rendered with gonum/plot instead of the
// teacher's gosl/plt (a matplotlib bridge with no standalone Go renderer).
package diagnostics

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dr-robertk/opm-simulators/influence"
)

// PlotInfluenceFit renders an aquifer's tabulated (tD, pD) samples alongside
// the fitted line pD ≈ C0 + C1·tD, the same sanity check the teacher plots a
// retention model's ODE solution against its closed-form Sl (§mdl/retention/plot.go),
// applied here to influence.Table.Fit.
func PlotInfluenceFit(table *influence.Table, path string) error {
	p := plot.New()
	p.Title.Text = "Carter-Tracy influence function fit"
	p.X.Label.Text = "dimensionless time tD"
	p.Y.Label.Text = "dimensionless pressure pD"

	samples := make(plotter.XYs, len(table.TD))
	for i := range table.TD {
		samples[i].X = table.TD[i]
		samples[i].Y = table.PD[i]
	}
	scatter, err := plotter.NewScatter(samples)
	if err != nil {
		return chk.Err("diagnostics: failed to build influence-table scatter: %v", err)
	}
	p.Add(scatter)
	p.Legend.Add("samples", scatter)

	if len(table.TD) >= 2 {
		fit := make(plotter.XYs, 2)
		fit[0].X, fit[1].X = table.TD[0], table.TD[len(table.TD)-1]
		fit[0].Y = table.C0 + table.C1*fit[0].X
		fit[1].Y = table.C0 + table.C1*fit[1].X
		line, err := plotter.NewLine(fit)
		if err != nil {
			return chk.Err("diagnostics: failed to build influence-table fit line: %v", err)
		}
		p.Add(line)
		p.Legend.Add("fit", line)
	}

	p.Add(plotter.NewGrid())
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return chk.Err("diagnostics: failed to save influence fit plot to %q: %v", path, err)
	}
	return nil
}

// PlotResidualHistory renders the per-iteration residual norm of a Newton
// solve on a log-scale y axis, the convergence-tracking chart an engineer
// checks when a run stalls. residuals[0] is the initial residual norm
// before any Newton update is applied.
func PlotResidualHistory(residuals []float64, path string) error {
	if len(residuals) == 0 {
		return chk.Err("diagnostics: residual history is empty")
	}
	p := plot.New()
	p.Title.Text = "Newton residual norm history"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "residual norm"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{}

	pts := make(plotter.XYs, len(residuals))
	for i, r := range residuals {
		pts[i].X = float64(i)
		pts[i].Y = r
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return chk.Err("diagnostics: failed to build residual-history line: %v", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return chk.Err("diagnostics: failed to save residual history plot to %q: %v", path, err)
	}
	return nil
}
