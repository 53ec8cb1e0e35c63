// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ad implements a forward-mode automatic-differentiation scalar
// carrying a value plus partial derivatives with respect to a fixed set of
// primary variables. All reservoir/well physics downstream is written in
// terms of this type so that every assembled residual contributes a
// correct Jacobian row without hand-differentiating anything.
package ad

import "math"

// Scalar is a value paired with derivatives w.r.t. N primary variables.
// Arithmetic on Scalar propagates derivatives by the chain rule.
type Scalar struct {
	val   float64
	deriv []float64
}

// NewConst returns a Scalar with the given value and n zero derivatives.
func NewConst(value float64, n int) Scalar {
	return Scalar{val: value, deriv: make([]float64, n)}
}

// NewVar returns a Scalar representing primary variable index i (out of n),
// i.e. value with derivative 1 at position i and 0 elsewhere.
func NewVar(value float64, i, n int) Scalar {
	s := NewConst(value, n)
	s.deriv[i] = 1
	return s
}

// Value returns the scalar's value.
func (s Scalar) Value() float64 { return s.val }

// Derivative returns ∂s/∂x_i.
func (s Scalar) Derivative(i int) float64 {
	if i < 0 || i >= len(s.deriv) {
		return 0
	}
	return s.deriv[i]
}

// NumVars returns the number of primary-variable slots this scalar carries.
func (s Scalar) NumVars() int { return len(s.deriv) }

// ClearDerivatives zeroes all derivatives, keeping the value. Required
// whenever an AD value from a different primary-variable domain (e.g. an
// upwinded neighbour's density) is mixed into a local expression, so that
// derivatives never cross-contaminate between unrelated footprints.
func (s Scalar) ClearDerivatives() Scalar {
	out := NewConst(s.val, len(s.deriv))
	return out
}

func (s Scalar) withSameSize(n int) Scalar {
	if len(s.deriv) >= n {
		return s
	}
	out := NewConst(s.val, n)
	copy(out.deriv, s.deriv)
	return out
}

func maxLen(a, b Scalar) int {
	if len(a.deriv) > len(b.deriv) {
		return len(a.deriv)
	}
	return len(b.deriv)
}

// Add returns s + other.
func (s Scalar) Add(other Scalar) Scalar {
	n := maxLen(s, other)
	a, b := s.withSameSize(n), other.withSameSize(n)
	out := NewConst(a.val+b.val, n)
	for i := range out.deriv {
		out.deriv[i] = a.deriv[i] + b.deriv[i]
	}
	return out
}

// AddFloat returns s + c for a plain float64 constant.
func (s Scalar) AddFloat(c float64) Scalar {
	out := NewConst(s.val+c, len(s.deriv))
	copy(out.deriv, s.deriv)
	return out
}

// Sub returns s - other.
func (s Scalar) Sub(other Scalar) Scalar {
	n := maxLen(s, other)
	a, b := s.withSameSize(n), other.withSameSize(n)
	out := NewConst(a.val-b.val, n)
	for i := range out.deriv {
		out.deriv[i] = a.deriv[i] - b.deriv[i]
	}
	return out
}

// SubFloat returns s - c.
func (s Scalar) SubFloat(c float64) Scalar {
	out := NewConst(s.val-c, len(s.deriv))
	copy(out.deriv, s.deriv)
	return out
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	out := NewConst(-s.val, len(s.deriv))
	for i, d := range s.deriv {
		out.deriv[i] = -d
	}
	return out
}

// Mul returns s * other, via the product rule.
func (s Scalar) Mul(other Scalar) Scalar {
	n := maxLen(s, other)
	a, b := s.withSameSize(n), other.withSameSize(n)
	out := NewConst(a.val*b.val, n)
	for i := range out.deriv {
		out.deriv[i] = a.deriv[i]*b.val + a.val*b.deriv[i]
	}
	return out
}

// MulFloat returns s * c.
func (s Scalar) MulFloat(c float64) Scalar {
	out := NewConst(s.val*c, len(s.deriv))
	for i, d := range s.deriv {
		out.deriv[i] = d * c
	}
	return out
}

// Div returns s / other, via the quotient rule.
func (s Scalar) Div(other Scalar) Scalar {
	n := maxLen(s, other)
	a, b := s.withSameSize(n), other.withSameSize(n)
	out := NewConst(a.val/b.val, n)
	inv2 := 1.0 / (b.val * b.val)
	for i := range out.deriv {
		out.deriv[i] = (a.deriv[i]*b.val - a.val*b.deriv[i]) * inv2
	}
	return out
}

// DivFloat returns s / c.
func (s Scalar) DivFloat(c float64) Scalar {
	out := NewConst(s.val/c, len(s.deriv))
	for i, d := range s.deriv {
		out.deriv[i] = d / c
	}
	return out
}

// Exp returns exp(s).
func (s Scalar) Exp() Scalar {
	ev := math.Exp(s.val)
	out := NewConst(ev, len(s.deriv))
	for i, d := range s.deriv {
		out.deriv[i] = d * ev
	}
	return out
}

// Log returns ln(s).
func (s Scalar) Log() Scalar {
	out := NewConst(math.Log(s.val), len(s.deriv))
	for i, d := range s.deriv {
		out.deriv[i] = d / s.val
	}
	return out
}

// Pow returns s^p for a constant real exponent p.
func (s Scalar) Pow(p float64) Scalar {
	vp := math.Pow(s.val, p)
	out := NewConst(vp, len(s.deriv))
	if s.val == 0 {
		return out
	}
	coef := p * math.Pow(s.val, p-1)
	for i, d := range s.deriv {
		out.deriv[i] = d * coef
	}
	return out
}

// Abs returns |s|, with derivative taken at the value's sign (0 treated as +).
func (s Scalar) Abs() Scalar {
	if s.val < 0 {
		return s.Neg()
	}
	return s
}

// Sqrt returns sqrt(s).
func (s Scalar) Sqrt() Scalar {
	return s.Pow(0.5)
}
