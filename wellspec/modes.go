// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wellspec holds the enumerations shared between the multi-segment
// well evaluator and the well-group control engine: control modes, the
// group-violation procedure, phases, and leaf well-control types (§6).
package wellspec

// Phase indexes the three black-oil surface/reservoir components.
type Phase int

const (
	Oil Phase = iota
	Water
	Gas
	NumPhases
)

// ProdCMode is a well or group's active production control mode.
type ProdCMode int

const (
	ProdNone ProdCMode = iota
	ORAT
	WRAT
	GRAT
	LRAT
	CRAT
	RESVProd
	PRBL
	BHPProd
	THPProd
	GRUPProd
	FLDProd
)

// InjCMode is a well or group's active injection control mode.
type InjCMode int

const (
	InjNone InjCMode = iota
	RATE
	RESVInj
	BHPInj
	THPInj
	REIN
	VREP
	GRUPInj
	FLDInj
)

// ProdProcedure selects the response a group takes when a production
// constraint is violated during conditionsMet (§4.6).
type ProdProcedure int

const (
	ProcNoneP ProdProcedure = iota
	ProcRATE
	ProcWELL
)

// ControlType is the kind of control installed at a leaf well's current
// control slot.
type ControlType int

const (
	ControlBHP ControlType = iota
	ControlTHP
	ControlReservoirRate
	ControlSurfaceRate
)

// String renders a ProdCMode for diagnostics and log lines.
func (m ProdCMode) String() string {
	switch m {
	case ProdNone:
		return "NONE"
	case ORAT:
		return "ORAT"
	case WRAT:
		return "WRAT"
	case GRAT:
		return "GRAT"
	case LRAT:
		return "LRAT"
	case CRAT:
		return "CRAT"
	case RESVProd:
		return "RESV"
	case PRBL:
		return "PRBL"
	case BHPProd:
		return "BHP"
	case THPProd:
		return "THP"
	case GRUPProd:
		return "GRUP"
	case FLDProd:
		return "FLD"
	default:
		return "UNKNOWN"
	}
}

// String renders an InjCMode for diagnostics and log lines.
func (m InjCMode) String() string {
	switch m {
	case InjNone:
		return "NONE"
	case RATE:
		return "RATE"
	case RESVInj:
		return "RESV"
	case BHPInj:
		return "BHP"
	case THPInj:
		return "THP"
	case REIN:
		return "REIN"
	case VREP:
		return "VREP"
	case GRUPInj:
		return "GRUP"
	case FLDInj:
		return "FLD"
	default:
		return "UNKNOWN"
	}
}
