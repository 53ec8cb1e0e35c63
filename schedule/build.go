// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/dr-robertk/opm-simulators/ad"
	"github.com/dr-robertk/opm-simulators/aquifer"
	"github.com/dr-robertk/opm-simulators/facade"
	"github.com/dr-robertk/opm-simulators/influence"
	"github.com/dr-robertk/opm-simulators/mswell"
	"github.com/dr-robertk/opm-simulators/wellgroup"
	"github.com/dr-robertk/opm-simulators/wellspec"
)

// toParams converts a JSON-facing parameter list to the dbf.Params shape
// aquifer.NewParams expects, following inp.Material's Prms field convention.
func toParams(specs []ParamSpec) dbf.Params {
	out := make(dbf.Params, 0, len(specs))
	for _, s := range specs {
		out = append(out, dbf.Params{{N: s.Name, V: s.Value}}...)
	}
	return out
}

// toProdCMode converts a schedule string to a wellspec.ProdCMode, mirroring
// WellsGroup.cpp's toProductionControlMode.
func toProdCMode(s string) (wellspec.ProdCMode, error) {
	switch s {
	case "", "NONE":
		return wellspec.ProdNone, nil
	case "ORAT":
		return wellspec.ORAT, nil
	case "WRAT":
		return wellspec.WRAT, nil
	case "GRAT":
		return wellspec.GRAT, nil
	case "LRAT":
		return wellspec.LRAT, nil
	case "CRAT":
		return wellspec.CRAT, nil
	case "RESV":
		return wellspec.RESVProd, nil
	case "PRBL":
		return wellspec.PRBL, nil
	case "BHP":
		return wellspec.BHPProd, nil
	case "THP":
		return wellspec.THPProd, nil
	case "GRUP":
		return wellspec.GRUPProd, nil
	case "FLD":
		return wellspec.FLDProd, nil
	default:
		return 0, chk.Err("schedule: unknown production control mode %q", s)
	}
}

// toInjCMode converts a schedule string to a wellspec.InjCMode, mirroring
// WellsGroup.cpp's toInjectionControlMode.
func toInjCMode(s string) (wellspec.InjCMode, error) {
	switch s {
	case "", "NONE":
		return wellspec.InjNone, nil
	case "RATE":
		return wellspec.RATE, nil
	case "RESV":
		return wellspec.RESVInj, nil
	case "BHP":
		return wellspec.BHPInj, nil
	case "THP":
		return wellspec.THPInj, nil
	case "REIN":
		return wellspec.REIN, nil
	case "VREP":
		return wellspec.VREP, nil
	case "GRUP":
		return wellspec.GRUPInj, nil
	case "FLD":
		return wellspec.FLDInj, nil
	default:
		return 0, chk.Err("schedule: unknown injection control mode %q", s)
	}
}

// toProcedure converts a schedule string to a wellspec.ProdProcedure,
// mirroring WellsGroup.cpp's toProductionProcedure.
func toProcedure(s string) (wellspec.ProdProcedure, error) {
	switch s {
	case "", "NONE":
		return wellspec.ProcNoneP, nil
	case "RATE":
		return wellspec.ProcRATE, nil
	case "WELL":
		return wellspec.ProcWELL, nil
	default:
		return 0, chk.Err("schedule: unknown group procedure %q", s)
	}
}

// toInjectorType converts a schedule string to a wellgroup.InjectorType,
// mirroring WellsGroup.cpp's toInjectorType.
func toInjectorType(s string) (wellgroup.InjectorType, error) {
	switch s {
	case "", "OIL":
		return wellgroup.InjectOil, nil
	case "WATER":
		return wellgroup.InjectWater, nil
	case "GAS":
		return wellgroup.InjectGas, nil
	default:
		return 0, chk.Err("schedule: unknown injector type %q", s)
	}
}

func toWellType(s string) (wellgroup.WellType, error) {
	switch s {
	case "PRODUCER":
		return wellgroup.Producer, nil
	case "INJECTOR":
		return wellgroup.Injector, nil
	default:
		return 0, chk.Err("schedule: unknown well type %q", s)
	}
}

func toSegmentType(s string) (mswell.SegmentType, error) {
	switch s {
	case "", "REGULAR":
		return mswell.Regular, nil
	case "SPIRAL_ICD":
		return mswell.SpiralICD, nil
	case "AUTO_ICD":
		return mswell.AutoICD, nil
	case "VALVE":
		return mswell.Valve, nil
	default:
		return 0, chk.Err("schedule: unknown segment type %q", s)
	}
}

func toValveStatus(s string) (mswell.ValveStatus, error) {
	switch s {
	case "", "OPEN":
		return mswell.ValveOpen, nil
	case "SHUT":
		return mswell.ValveShut, nil
	default:
		return 0, chk.Err("schedule: unknown valve status %q", s)
	}
}

// buildProductionSpec converts a ProductionSpec to a wellgroup.ProductionSpecification.
func buildProductionSpec(s ProductionSpec) (wellgroup.ProductionSpecification, error) {
	mode, err := toProdCMode(s.ControlMode)
	if err != nil {
		return wellgroup.ProductionSpecification{}, err
	}
	proc, err := toProcedure(s.Procedure)
	if err != nil {
		return wellgroup.ProductionSpecification{}, err
	}
	return wellgroup.ProductionSpecification{
		ControlMode:          mode,
		Procedure:            proc,
		OilMaxRate:           s.OilMaxRate,
		WaterMaxRate:         s.WaterMaxRate,
		GasMaxRate:           s.GasMaxRate,
		LiquidMaxRate:        s.LiquidMaxRate,
		ReservoirFlowMaxRate: s.ReservoirFlowMaxRate,
		BHPLimit:             s.BHPLimit,
		GuideRate:            s.GuideRate,
	}, nil
}

// buildInjectionSpec converts an InjectionSpec to a wellgroup.InjectionSpecification.
func buildInjectionSpec(s InjectionSpec) (wellgroup.InjectionSpecification, error) {
	mode, err := toInjCMode(s.ControlMode)
	if err != nil {
		return wellgroup.InjectionSpecification{}, err
	}
	itype, err := toInjectorType(s.InjectorType)
	if err != nil {
		return wellgroup.InjectionSpecification{}, err
	}
	return wellgroup.InjectionSpecification{
		ControlMode:                mode,
		InjectorType:               itype,
		SurfaceFlowMaxRate:         s.SurfaceFlowMaxRate,
		ReservoirFlowMaxRate:       s.ReservoirFlowMaxRate,
		BHPLimit:                   s.BHPLimit,
		ReinjectionFractionTarget:  s.ReinjectionFractionTarget,
		VoidageReplacementFraction: s.VoidageReplacementFraction,
		GuideRate:                  s.GuideRate,
	}, nil
}

// Tree is the assembled well-group control tree plus an index of every node
// by name, the shape most callers build one per schedule.
type Tree struct {
	Root  *wellgroup.GroupNode
	Wells map[string]*wellgroup.WellNode
	Nodes map[string]wellgroup.Node
}

// BuildTree assembles a wellgroup.GroupNode tree from a schedule's group and
// well declarations. It is an error for more than one group to have an empty
// Parent, or for a well/group to reference a parent group that does not
// exist among d.Groups.
func BuildTree(d *Data) (*Tree, error) {
	groups := make(map[string]*wellgroup.GroupNode, len(d.Groups))
	nodes := make(map[string]wellgroup.Node, len(d.Groups)+len(d.Wells))

	for _, gs := range d.Groups {
		prodSpec, err := buildProductionSpec(gs.Production)
		if err != nil {
			return nil, err
		}
		injSpec, err := buildInjectionSpec(gs.Injection)
		if err != nil {
			return nil, err
		}
		g := wellgroup.NewGroupNode(gs.Name, gs.EfficiencyFactor, prodSpec, injSpec)
		groups[gs.Name] = g
		nodes[gs.Name] = g
	}

	var root *wellgroup.GroupNode
	for _, gs := range d.Groups {
		g := groups[gs.Name]
		if gs.Parent == "" {
			if root != nil {
				return nil, chk.Err("schedule: more than one root group (%q and %q)", root.Name(), g.Name())
			}
			root = g
			continue
		}
		parent, ok := groups[gs.Parent]
		if !ok {
			return nil, chk.Err("schedule: group %q references unknown parent group %q", gs.Name, gs.Parent)
		}
		parent.AddChild(g)
	}
	if root == nil && len(d.Groups) > 0 {
		return nil, chk.Err("schedule: no root group found (every group has a non-empty parent)")
	}

	wells := make(map[string]*wellgroup.WellNode, len(d.Wells))
	for _, ws := range d.Wells {
		wellType, err := toWellType(ws.Type)
		if err != nil {
			return nil, err
		}
		prodSpec, err := buildProductionSpec(ws.Production)
		if err != nil {
			return nil, err
		}
		injSpec, err := buildInjectionSpec(ws.Injection)
		if err != nil {
			return nil, err
		}
		w := wellgroup.NewWellNode(ws.Name, ws.EfficiencyFactor, prodSpec, injSpec, wellType, ws.SelfIndex)
		w.HardShut = ws.HardShut
		parent, ok := groups[ws.Group]
		if !ok {
			return nil, chk.Err("schedule: well %q references unknown group %q", ws.Name, ws.Group)
		}
		parent.AddChild(w)
		wells[ws.Name] = w
		nodes[ws.Name] = w
	}

	return &Tree{Root: root, Wells: wells, Nodes: nodes}, nil
}

// BuildAquifer constructs an aquifer.Engine from one AquiferSpec, against a
// caller-supplied grid/PVT facade.
func BuildAquifer(spec AquiferSpec, fg facade.FluidGrid, pvt facade.WaterPVT, influenceTables map[int]InfluenceSpec) (*aquifer.Engine, error) {
	inf, ok := influenceTables[spec.InfluenceID]
	if !ok {
		return nil, chk.Err("schedule: aquifer %q references unknown influence table %d", spec.ID, spec.InfluenceID)
	}
	table, err := influence.NewTable(inf.TD, inf.PD)
	if err != nil {
		return nil, err
	}

	params, err := aquifer.NewParams(toParams(spec.Params), spec.ID, spec.WaterPVTID, spec.InfluenceID)
	if err != nil {
		return nil, err
	}

	inputs := make([]aquifer.ConnectionInput, len(spec.Connections))
	for i, c := range spec.Connections {
		inputs[i] = aquifer.ConnectionInput{
			CellID:           c.CellID,
			FaceDir:          facade.FaceTagToDir(c.FaceTag),
			InfluxCoeff:      c.InfluxCoeff,
			InfluxMultiplier: c.InfluxMultiplier,
		}
	}

	temperature := ad.NewConst(spec.Temperature, fg.NumPrimaryVars())
	return aquifer.NewEngine(params, fg, pvt, inputs, table, temperature, 9.81)
}

// Completion is the multi-segment well evaluator and its runtime state,
// ready for one well's residual assembly once a ControlEquation is attached.
type Completion struct {
	Segments *mswell.SegmentSet
	State    *mswell.State
	Gravity  float64
}

// BuildCompletion assembles a mswell.SegmentSet and fresh State from one
// well's declared segment topology. The caller attaches a
// mswell.ControlEquation and constructs the mswell.Evaluator itself, since
// the control equation depends on the well's currently active control,
// which only the caller's control layer tracks.
func BuildCompletion(ws WellSpec) (*Completion, error) {
	if len(ws.Segments) == 0 {
		return nil, nil
	}
	segs := make([]mswell.Segment, len(ws.Segments))
	for i, ss := range ws.Segments {
		segType, err := toSegmentType(ss.Type)
		if err != nil {
			return nil, err
		}
		valveStatus, err := toValveStatus(ss.ValveStatus)
		if err != nil {
			return nil, err
		}
		segs[i] = mswell.Segment{
			Index:            ss.Index,
			CrossArea:        ss.CrossArea,
			Depth:            ss.Depth,
			Length:           ss.Length,
			Diameter:         ss.Diameter,
			Roughness:        ss.Roughness,
			OutletSegment:    ss.OutletSegment,
			Type:             segType,
			ICDStrength:      ss.ICDStrength,
			ICDScalingFactor: ss.ICDScalingFactor,
			ICDDensityExp:    ss.ICDDensityExp,
			ICDViscosityExp:  ss.ICDViscosityExp,
			ValveFlowCoeff:   ss.ValveFlowCoeff,
			ValveArea:        ss.ValveArea,
			ValveStatus:      valveStatus,
		}
	}
	ss, err := mswell.NewSegmentSet(segs)
	if err != nil {
		return nil, err
	}
	m := ss.NumSegments() * mswell.NumWellEq
	return &Completion{Segments: ss, State: mswell.NewState(ss.NumSegments(), m), Gravity: ws.Gravity}, nil
}
