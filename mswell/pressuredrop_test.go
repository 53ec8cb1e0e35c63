// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"

	"github.com/dr-robertk/opm-simulators/ad"
)

// TestFrictionDropDerivativeMatchesFiniteDifference checks the AD-carried
// derivative of FrictionDrop w.r.t. mass rate against a central-difference
// approximation, following tests/debugKb.go's num.DerivCentral Jacobian-check
// convention.
func TestFrictionDropDerivativeMatchesFiniteDifference(t *testing.T) {
	chk.PrintTitle("mswell: friction drop derivative vs. finite difference")

	seg := Segment{Diameter: 0.15, CrossArea: 0.02, Length: 500, Roughness: 0.02}
	density := ad.NewConst(850, 1)
	massRate0 := 3.5

	analytic := FrictionDrop(seg, ad.NewVar(massRate0, 0, 1), density).Derivative(0)

	numeric, err := num.DerivCentral(func(x float64, args ...interface{}) (res float64) {
		return FrictionDrop(seg, ad.NewConst(x, 1), density).Value()
	}, massRate0, 1e-3)
	if err != nil {
		t.Fatalf("DerivCentral failed: %v", err)
	}

	chk.AnaNum(t, "dFrictionDrop/dMassRate", 1e-6, analytic, numeric, chk.Verbose)
}

// TestPressureDropValveDerivativeMatchesFiniteDifference checks the same for
// the valve device drop.
func TestPressureDropValveDerivativeMatchesFiniteDifference(t *testing.T) {
	chk.PrintTitle("mswell: valve pressure drop derivative vs. finite difference")

	seg := Segment{ValveFlowCoeff: 0.8, ValveArea: 5e-4}
	density := ad.NewConst(900, 1)
	massRate0 := -2.0

	analytic := PressureDropValve(seg, ad.NewVar(massRate0, 0, 1), density).Derivative(0)

	numeric, err := num.DerivCentral(func(x float64, args ...interface{}) (res float64) {
		return PressureDropValve(seg, ad.NewConst(x, 1), density).Value()
	}, massRate0, 1e-3)
	if err != nil {
		t.Fatalf("DerivCentral failed: %v", err)
	}

	chk.AnaNum(t, "dPressureDropValve/dMassRate", 1e-6, analytic, numeric, chk.Verbose)
}
