// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package influence implements the tabulated dimensionless-pressure vs.
// dimensionless-time influence function used by the Carter-Tracy aquifer
// model, and its least-squares line fit.
package influence

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Table holds an ordered sequence of (tD, pD) sample pairs plus the fitted
// line pD(tD) ≈ C0 + C1*tD obtained by least-squares over the samples.
// Samples must be strictly increasing in tD and there must be at least two
// of them; both are checked by NewTable.
type Table struct {
	TD []float64
	PD []float64
	C0 float64
	C1 float64
}

// NewTable builds a Table from sample pairs and fits the line in the same
// pass. It fails if there are fewer than two samples, if tD is not strictly
// increasing, or if the fit itself fails (see Fit).
func NewTable(tD, pD []float64) (*Table, error) {
	if len(tD) != len(pD) {
		return nil, chk.Err("influence: tD and pD must have the same length (%d != %d)", len(tD), len(pD))
	}
	if len(tD) < 2 {
		return nil, chk.Err("influence: at least 2 samples required, got %d", len(tD))
	}
	for i := 1; i < len(tD); i++ {
		if tD[i] <= tD[i-1] {
			return nil, chk.Err("influence: samples must be strictly increasing in tD (tD[%d]=%g <= tD[%d]=%g)", i, tD[i], i-1, tD[i-1])
		}
	}
	c0, c1, err := Fit(tD, pD, 1, true)
	if err != nil {
		return nil, err
	}
	return &Table{TD: tD, PD: pD, C0: c0[0], C1: c1}, nil
}

// Eval returns the fitted dimensionless pressure at tD, and its derivative
// w.r.t. tD (constant, since the fit is a line): PItd = C0 + C1*tD,
// PItd' = C1.
func (t *Table) Eval(tD float64) (pItd, pItdPrime float64) {
	return t.C0 + t.C1*tD, t.C1
}

// Fit solves the least-squares Vandermonde system for a polynomial of the
// given order through (x, y) via QR decomposition, matching the reference
// simulator's polynomial_fit (Eigen::householderQr().solve(...)). When
// order=1 and withBias=true (the only configuration the Carter-Tracy engine
// uses), this recovers the line coefficients [C0, C1] such that
// y ≈ C0 + C1*x.
//
// Returns an insufficient_samples error if len(x) < order+1 (order) when
// withBias is true (false).
func Fit(x, y []float64, order int, withBias bool) (coeffs []float64, c1 float64, err error) {
	colNum := order
	if withBias {
		colNum = order + 1
	}
	n := len(x)
	if n < colNum {
		return nil, 0, chk.Err("influence: insufficient_samples: need >= %d samples for order=%d withBias=%v, got %d", colNum, order, withBias, n)
	}

	a := mat.NewDense(n, colNum, nil)
	b := mat.NewVecDense(n, y)
	for i := 0; i < n; i++ {
		for j := 0; j < colNum; j++ {
			power := j
			if !withBias {
				power = j + 1
			}
			a.Set(i, j, ipow(x[i], power))
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var result mat.VecDense
	if err := qr.SolveVecTo(&result, false, b); err != nil {
		return nil, 0, chk.Err("influence: QR fit failed: %v", err)
	}

	coeffs = make([]float64, colNum)
	for i := 0; i < colNum; i++ {
		coeffs[i] = result.AtVec(i)
	}
	if colNum >= 2 {
		c1 = coeffs[1]
	}
	return coeffs, c1, nil
}

func ipow(x float64, p int) float64 {
	r := 1.0
	for i := 0; i < p; i++ {
		r *= x
	}
	return r
}
