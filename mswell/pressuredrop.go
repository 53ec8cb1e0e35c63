// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mswell

import "github.com/dr-robertk/opm-simulators/ad"

// VelocityHead returns ρ·v²/2 expressed in terms of mass rate and
// cross-sectional area: m²/(2·ρ·A²) (§4.4 acceleration loss).
func VelocityHead(area float64, massRate, density ad.Scalar) ad.Scalar {
	return massRate.Mul(massRate).Div(density.MulFloat(2 * area * area))
}

// HydrostaticDrop returns ρ·g·Δdepth for one segment, using the segment's
// own (upwinded) mixture density.
func HydrostaticDrop(density ad.Scalar, depthDiff, gravity float64) ad.Scalar {
	return density.MulFloat(gravity * depthDiff)
}

// frictionCoefficient is the along-hole constant bundling roughness,
// length, diameter and cross-section into one Darcy-Weisbach-style factor.
func frictionCoefficient(seg Segment) float64 {
	if seg.Diameter <= 0 || seg.CrossArea <= 0 {
		return 0
	}
	return seg.Roughness * seg.Length / (2 * seg.Diameter * seg.CrossArea * seg.CrossArea)
}

// FrictionDrop returns the segment's sign-preserving quadratic friction
// pressure drop, coeff·ṁ·|ṁ|/ρ.
func FrictionDrop(seg Segment, massRate, density ad.Scalar) ad.Scalar {
	coeff := frictionCoefficient(seg)
	return massRate.Mul(massRate.Abs()).MulFloat(coeff).Div(density)
}

// PressureDropSpiralICD returns the spiral-ICD device drop: a quadratic
// rate term scaled by mixture density and the device's strength/scaling
// coefficients.
func PressureDropSpiralICD(seg Segment, massRate, density ad.Scalar) ad.Scalar {
	if seg.ICDScalingFactor == 0 {
		return ad.NewConst(0, massRate.NumVars())
	}
	return massRate.Mul(massRate.Abs()).Mul(density).MulFloat(seg.ICDStrength / seg.ICDScalingFactor)
}

// PressureDropAutoICD returns the auto-ICD device drop: the spiral-ICD
// quadratic term additionally scaled by density and viscosity exponents
// (AICDs throttle more aggressively as water cut/viscosity change).
func PressureDropAutoICD(seg Segment, massRate, density, viscosity ad.Scalar) ad.Scalar {
	if seg.ICDScalingFactor == 0 {
		return ad.NewConst(0, massRate.NumVars())
	}
	densityTerm := density.Pow(seg.ICDDensityExp)
	viscosityTerm := viscosity.Pow(seg.ICDViscosityExp)
	return massRate.Mul(massRate.Abs()).Mul(densityTerm).Mul(viscosityTerm).MulFloat(seg.ICDStrength / seg.ICDScalingFactor)
}

// PressureDropValve returns the valve device drop: an orifice-equation
// quadratic term through the valve's flow coefficient and area.
func PressureDropValve(seg Segment, massRate, density ad.Scalar) ad.Scalar {
	if seg.ValveFlowCoeff <= 0 || seg.ValveArea <= 0 {
		return ad.NewConst(0, massRate.NumVars())
	}
	denom := density.MulFloat(2 * seg.ValveFlowCoeff * seg.ValveFlowCoeff * seg.ValveArea * seg.ValveArea)
	return massRate.Mul(massRate.Abs()).Div(denom)
}
