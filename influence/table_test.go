// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package influence

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestFitRecoversKnownLine(tst *testing.T) {
	chk.PrintTitle("influence: fit recovers known line")

	// y = 2 + 3x sampled exactly; least squares must recover (2,3) to 1e-12.
	x := []float64{0, 1, 2, 3, 4, 5}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 2 + 3*xi
	}

	coeffs, c1, err := Fit(x, y, 1, true)
	if err != nil {
		tst.Fatalf("Fit failed: %v", err)
	}
	chk.Scalar(tst, "c0", 1e-12, coeffs[0], 2.0)
	chk.Scalar(tst, "c1", 1e-12, coeffs[1], 3.0)
	chk.Scalar(tst, "c1 (named return)", 1e-12, c1, 3.0)
}

func TestCarterTracySampleTable(tst *testing.T) {
	chk.PrintTitle("influence: Carter-Tracy pulse scenario table")

	// Scenario 2 from the testable-properties section: (tD,pD)={(0,0),(10,5)}
	// must give C0=0, C1=0.5.
	tab, err := NewTable([]float64{0, 10}, []float64{0, 5})
	if err != nil {
		tst.Fatalf("NewTable failed: %v", err)
	}
	chk.Scalar(tst, "C0", 1e-12, tab.C0, 0.0)
	chk.Scalar(tst, "C1", 1e-12, tab.C1, 0.5)

	pItd, pItdPrime := tab.Eval(10)
	chk.Scalar(tst, "PItd at tD'=10", 1e-12, pItd, 5.0)
	chk.Scalar(tst, "PItd'", 1e-12, pItdPrime, 0.5)
}

func TestNewTableRejectsTooFewSamples(tst *testing.T) {
	chk.PrintTitle("influence: rejects insufficient samples")
	_, err := NewTable([]float64{0}, []float64{0})
	if err == nil {
		tst.Fatalf("expected error for single sample, got nil")
	}
}

func TestNewTableRejectsNonIncreasing(tst *testing.T) {
	chk.PrintTitle("influence: rejects non-increasing tD")
	_, err := NewTable([]float64{0, 0}, []float64{0, 1})
	if err == nil {
		tst.Fatalf("expected error for non-increasing tD, got nil")
	}
}
