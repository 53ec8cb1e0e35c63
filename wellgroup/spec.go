// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wellgroup implements the hierarchical well-group control tree
// (§4.6): a recursive ProductionSpecification/InjectionSpecification
// constraint check, group-to-child target redistribution by guide rate, the
// worst-offending-well shut procedure, and REIN/VREP explicit reinjection
// policies. Grounded on opm/core/wells/WellsGroup.cpp.
package wellgroup

import "github.com/dr-robertk/opm-simulators/wellspec"

// InvalidALQ and InvalidVFP are sentinel values assigned to a well control's
// artificial-lift quantity / VFP table slot when neither applies, carried as
// named constants rather than mutable package globals (§9).
const (
	InvalidALQ = -1e100
	InvalidVFP = -2147483647.0
)

// InjectorType is the fluid a group or well injects, used to pick the
// production phase that REIN reinjects a fraction of.
type InjectorType int

const (
	InjectOil InjectorType = iota
	InjectWater
	InjectGas
)

// WellType distinguishes a leaf well's role; unrelated to the control-mode
// enumerations in package wellspec.
type WellType int

const (
	Producer WellType = iota
	Injector
)

// ProductionSpecification bundles a group or well's production constraints
// and active control mode (mirrors WellsGroupInterface's production_specification_).
type ProductionSpecification struct {
	ControlMode wellspec.ProdCMode
	Procedure   wellspec.ProdProcedure

	OilMaxRate           float64
	WaterMaxRate         float64
	GasMaxRate           float64
	LiquidMaxRate        float64
	ReservoirFlowMaxRate float64
	BHPLimit             float64
	GuideRate            float64
}

// InjectionSpecification bundles a group or well's injection constraints,
// active control mode, and REIN/VREP reinjection targets.
type InjectionSpecification struct {
	ControlMode  wellspec.InjCMode
	InjectorType InjectorType

	SurfaceFlowMaxRate         float64
	ReservoirFlowMaxRate       float64
	BHPLimit                   float64
	ReinjectionFractionTarget  float64
	VoidageReplacementFraction float64
	GuideRate                  float64
}

// WellPhasesSummed accumulates per-phase reservoir/surface rates for the
// injectors and producers beneath one group node, reported bottom-up by
// ConditionsMet (mirrors WellPhasesSummed).
type WellPhasesSummed struct {
	ResInjRates  [3]float64
	ResProdRates [3]float64
	SurfInjRates [3]float64
	SurfProdRates [3]float64
}

// Add accumulates another summary into this one.
func (s *WellPhasesSummed) Add(other *WellPhasesSummed) {
	for i := 0; i < 3; i++ {
		s.ResInjRates[i] += other.ResInjRates[i]
		s.ResProdRates[i] += other.ResProdRates[i]
		s.SurfInjRates[i] += other.SurfInjRates[i]
		s.SurfProdRates[i] += other.SurfProdRates[i]
	}
}

// WellControl is one entry in a leaf well's control list: its kind, target,
// and (for rate controls) the per-phase weighting used to combine rates.
type WellControl struct {
	Type   wellspec.ControlType
	Target float64
	Distr  [3]float64
}
