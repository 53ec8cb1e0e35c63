// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestScalarArithmeticDerivatives(tst *testing.T) {
	chk.PrintTitle("ad: arithmetic derivatives")

	n := 2
	x := NewVar(3.0, 0, n)
	y := NewVar(4.0, 1, n)

	sum := x.Add(y)
	chk.Scalar(tst, "value(x+y)", 1e-15, sum.Value(), 7.0)
	chk.Scalar(tst, "d(x+y)/dx", 1e-15, sum.Derivative(0), 1.0)
	chk.Scalar(tst, "d(x+y)/dy", 1e-15, sum.Derivative(1), 1.0)

	prod := x.Mul(y)
	chk.Scalar(tst, "value(x*y)", 1e-15, prod.Value(), 12.0)
	chk.Scalar(tst, "d(x*y)/dx", 1e-15, prod.Derivative(0), 4.0)
	chk.Scalar(tst, "d(x*y)/dy", 1e-15, prod.Derivative(1), 3.0)

	quot := x.Div(y)
	chk.Scalar(tst, "value(x/y)", 1e-15, quot.Value(), 0.75)
	chk.Scalar(tst, "d(x/y)/dx", 1e-15, quot.Derivative(0), 1.0/4.0)
	chk.Scalar(tst, "d(x/y)/dy", 1e-15, quot.Derivative(1), -3.0/16.0)
}

func TestScalarExpLogPow(tst *testing.T) {
	chk.PrintTitle("ad: exp/log/pow derivatives")
	n := 1
	x := NewVar(2.0, 0, n)

	e := x.Exp()
	chk.Scalar(tst, "d(exp(x))/dx", 1e-12, e.Derivative(0), math.Exp(2.0))

	l := x.Log()
	chk.Scalar(tst, "d(log(x))/dx", 1e-12, l.Derivative(0), 0.5)

	p := x.Pow(3.0)
	chk.Scalar(tst, "value(x^3)", 1e-12, p.Value(), 8.0)
	chk.Scalar(tst, "d(x^3)/dx", 1e-12, p.Derivative(0), 12.0)
}

func TestScalarClearDerivatives(tst *testing.T) {
	chk.PrintTitle("ad: clear derivatives prevents cross-contamination")
	x := NewVar(5.0, 0, 3)
	cleared := x.ClearDerivatives()
	chk.Scalar(tst, "value preserved", 1e-15, cleared.Value(), 5.0)
	for i := 0; i < cleared.NumVars(); i++ {
		chk.Scalar(tst, "derivative zeroed", 1e-15, cleared.Derivative(i), 0.0)
	}
}
