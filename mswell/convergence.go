// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dr-robertk/opm-simulators/wellspec"
)

// Severity classifies how badly a residual has missed its tolerance.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityNormal
	SeverityTooLarge
	SeverityNotANumber
)

// FailureKind distinguishes mass-balance, pressure, and control failures.
type FailureKind int

const (
	MassBalance FailureKind = iota
	Pressure
	Control
)

// Failure records one convergence failure for one equation.
type Failure struct {
	Kind         FailureKind
	Severity     Severity
	ComponentIdx int // -1 for pressure/control failures
}

// ConvergenceReport is the outcome of GetWellConvergence: zero or more
// Failures plus the residual measure used for damping (§4.5).
type ConvergenceReport struct {
	Failures       []Failure
	ResidualMeasure float64
}

// Converged reports whether no failure was recorded.
func (r *ConvergenceReport) Converged() bool { return len(r.Failures) == 0 }

// Tolerances bundles the externally-supplied convergence thresholds
// consumed by GetWellConvergence (§4.5, §7).
type Tolerances struct {
	MaxResidualAllowed                  float64
	ToleranceWells                      float64
	TolerancePressureMSWells            float64
	RelaxedInnerToleranceFlowMSWell     float64
	RelaxedInnerTolerancePressureMSWell float64
	RelaxTolerance                      bool
}

// getControlTolerance selects the control-equation tolerance by the well's
// active control mode, mirroring the reference simulator's getControlTolerance switch
// (§4.5's "mode-dependent control-equation tolerance").
func getControlTolerance(isInjector bool, prodMode wellspec.ProdCMode, injMode wellspec.InjCMode, t Tolerances) (float64, error) {
	if isInjector {
		switch injMode {
		case wellspec.THPInj:
			return t.TolerancePressureMSWells, nil
		case wellspec.BHPInj, wellspec.RATE, wellspec.RESVInj, wellspec.GRUPInj:
			return t.ToleranceWells, nil
		default:
			return 0, chk.Err("mswell: unknown injector control mode %v", injMode)
		}
	}
	switch prodMode {
	case wellspec.THPProd:
		return t.TolerancePressureMSWells, nil
	case wellspec.BHPProd, wellspec.ORAT, wellspec.WRAT, wellspec.GRAT, wellspec.LRAT, wellspec.RESVProd, wellspec.CRAT, wellspec.GRUPProd:
		return t.ToleranceWells, nil
	default:
		return 0, chk.Err("mswell: unknown producer control mode %v", prodMode)
	}
}

// maximumResiduals returns, per equation index, the max over segments of
// the (B_avg-scaled, for mass rows) absolute residual — mass rows are
// maxed over every segment, pressure rows only over non-top segments
// (§4.5).
func maximumResiduals(residuals [][]float64, bAvg []float64) []float64 {
	maxRes := make([]float64, NumWellEq)
	for seg, row := range residuals {
		for eq := 0; eq < NumWellEq; eq++ {
			v := math.Abs(row[eq])
			if eq < NumComponents {
				v *= bAvg[eq]
			} else if seg == 0 {
				continue // top segment's SPres row is the control equation
			}
			if v > maxRes[eq] || math.IsNaN(v) {
				maxRes[eq] = v
			}
		}
	}
	return maxRes
}

// GetWellConvergence classifies the last-assembled residuals per §4.5 and
// §7: mass-balance and pressure rows by the shared NaN/TooLarge/Normal
// ladder (optionally relaxed), and the top-segment control row separately
// against getControlTolerance.
func (e *Evaluator) GetWellConvergence(isInjector bool, prodMode wellspec.ProdCMode, injMode wellspec.InjCMode, bAvg []float64, t Tolerances) (ConvergenceReport, error) {
	if len(bAvg) != NumComponents {
		return ConvergenceReport{}, chk.Err("mswell: B_avg must have %d entries, got %d", NumComponents, len(bAvg))
	}
	maxRes := maximumResiduals(e.segResidual, bAvg)

	var report ConvergenceReport
	for eq := 0; eq < NumWellEq; eq++ {
		v := maxRes[eq]
		if eq < NumComponents {
			switch {
			case math.IsNaN(v):
				report.Failures = append(report.Failures, Failure{MassBalance, SeverityNotANumber, eq})
			case v > t.MaxResidualAllowed:
				report.Failures = append(report.Failures, Failure{MassBalance, SeverityTooLarge, eq})
			case !t.RelaxTolerance && v > t.ToleranceWells:
				report.Failures = append(report.Failures, Failure{MassBalance, SeverityNormal, eq})
			case v > t.RelaxedInnerToleranceFlowMSWell:
				report.Failures = append(report.Failures, Failure{MassBalance, SeverityNormal, eq})
			}
		} else {
			switch {
			case math.IsNaN(v):
				report.Failures = append(report.Failures, Failure{Pressure, SeverityNotANumber, -1})
			case v > t.MaxResidualAllowed:
				report.Failures = append(report.Failures, Failure{Pressure, SeverityTooLarge, -1})
			case !t.RelaxTolerance && v > t.TolerancePressureMSWells:
				report.Failures = append(report.Failures, Failure{Pressure, SeverityNormal, -1})
			case v > t.RelaxedInnerTolerancePressureMSWell:
				report.Failures = append(report.Failures, Failure{Pressure, SeverityNormal, -1})
			}
		}
	}

	controlTol, err := getControlTolerance(isInjector, prodMode, injMode, t)
	if err != nil {
		return ConvergenceReport{}, err
	}
	controlResidual := math.Abs(e.segResidual[0][SPres])
	switch {
	case math.IsNaN(controlResidual):
		report.Failures = append(report.Failures, Failure{Control, SeverityNotANumber, -1})
	case controlResidual > t.MaxResidualAllowed:
		report.Failures = append(report.Failures, Failure{Control, SeverityTooLarge, -1})
	case controlResidual > controlTol:
		report.Failures = append(report.Failures, Failure{Control, SeverityNormal, -1})
	}

	measure, err := e.getResidualMeasureValue(maxRes, controlResidual, t, controlTol)
	if err != nil {
		return ConvergenceReport{}, err
	}
	report.ResidualMeasure = measure
	return report, nil
}

// getResidualMeasureValue sums residual[e]/tolerance[e] over every equation
// currently above tolerance, for use as a damping signal by the outer
// Newton loop (§4.5).
func (e *Evaluator) getResidualMeasureValue(maxRes []float64, controlResidual float64, t Tolerances, controlTol float64) (float64, error) {
	var sum float64
	for eq := 0; eq < NumComponents; eq++ {
		if maxRes[eq] > t.ToleranceWells {
			sum += maxRes[eq] / t.ToleranceWells
		}
	}
	if maxRes[SPres] > t.TolerancePressureMSWells {
		sum += maxRes[SPres] / t.TolerancePressureMSWells
	}
	if controlResidual > controlTol {
		sum += controlResidual / controlTol
	}
	return sum, nil
}
