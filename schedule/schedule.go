// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule loads a declarative JSON description of a run's wells,
// groups, aquifers, and multi-segment completions, and builds the
// wellgroup/aquifer/mswell domain objects from it, following the teacher's
// inp.ReadMat JSON-database convention.
package schedule

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// ParamSpec is one named floating-point parameter, the JSON-facing mirror of
// a dbf.Params entry (mirrors inp.Material's Prms field, §inp/mat.go).
type ParamSpec struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ConnectionSpec is one declarative aquifer-to-cell connection entry, before
// InitializeConnections derives its geometry.
type ConnectionSpec struct {
	CellID           int     `json:"cellId"`
	FaceTag          int     `json:"faceTag"` // 0..5, per facade.FaceTagToDir
	InfluxCoeff      float64 `json:"influxCoeff"`
	InfluxMultiplier float64 `json:"influxMultiplier"`
}

// InfluenceSpec is the tabulated dimensionless (tD, pD) sample data for one
// aquifer's influence function.
type InfluenceSpec struct {
	ID int       `json:"id"`
	TD []float64 `json:"tD"`
	PD []float64 `json:"pD"`
}

// AquiferSpec declares one Carter-Tracy aquifer.
type AquiferSpec struct {
	ID          string           `json:"id"`
	Params      []ParamSpec      `json:"params"`
	WaterPVTID  int              `json:"waterPVTID"`
	InfluenceID int              `json:"influenceID"`
	Temperature float64          `json:"temperature"`
	Connections []ConnectionSpec `json:"connections"`
}

// ProductionSpec is the JSON-facing mirror of wellgroup.ProductionSpecification,
// with enum fields spelled as the names toProdCMode/toProcedure accept.
type ProductionSpec struct {
	ControlMode          string  `json:"controlMode"`
	Procedure            string  `json:"procedure"`
	OilMaxRate           float64 `json:"oilMaxRate"`
	WaterMaxRate         float64 `json:"waterMaxRate"`
	GasMaxRate           float64 `json:"gasMaxRate"`
	LiquidMaxRate        float64 `json:"liquidMaxRate"`
	ReservoirFlowMaxRate float64 `json:"reservoirFlowMaxRate"`
	BHPLimit             float64 `json:"bhpLimit"`
	GuideRate            float64 `json:"guideRate"`
}

// InjectionSpec is the JSON-facing mirror of wellgroup.InjectionSpecification.
type InjectionSpec struct {
	ControlMode                string  `json:"controlMode"`
	InjectorType               string  `json:"injectorType"` // "OIL", "WATER", "GAS"
	SurfaceFlowMaxRate         float64 `json:"surfaceFlowMaxRate"`
	ReservoirFlowMaxRate       float64 `json:"reservoirFlowMaxRate"`
	BHPLimit                   float64 `json:"bhpLimit"`
	ReinjectionFractionTarget  float64 `json:"reinjectionFractionTarget"`
	VoidageReplacementFraction float64 `json:"voidageReplacementFraction"`
	GuideRate                  float64 `json:"guideRate"`
}

// GroupSpec declares one node of the well-group control tree. Parent is the
// name of another group in the same schedule, or "" for the root.
type GroupSpec struct {
	Name             string         `json:"name"`
	Parent           string         `json:"parent"`
	EfficiencyFactor float64        `json:"efficiencyFactor"`
	Production       ProductionSpec `json:"production"`
	Injection        InjectionSpec  `json:"injection"`
}

// SegmentSpec is the JSON-facing mirror of mswell.Segment.
type SegmentSpec struct {
	Index            int     `json:"index"`
	CrossArea        float64 `json:"crossArea"`
	Depth            float64 `json:"depth"`
	Length           float64 `json:"length"`
	Diameter         float64 `json:"diameter"`
	Roughness        float64 `json:"roughness"`
	OutletSegment    int     `json:"outletSegment"`
	Type             string  `json:"type"` // "REGULAR", "SPIRAL_ICD", "AUTO_ICD", "VALVE"
	ICDStrength      float64 `json:"icdStrength"`
	ICDScalingFactor float64 `json:"icdScalingFactor"`
	ICDDensityExp    float64 `json:"icdDensityExp"`
	ICDViscosityExp  float64 `json:"icdViscosityExp"`
	ValveFlowCoeff   float64 `json:"valveFlowCoeff"`
	ValveArea        float64 `json:"valveArea"`
	ValveStatus      string  `json:"valveStatus"` // "OPEN", "SHUT"
}

// WellSpec declares one leaf well: its place in the group tree, type,
// production/injection constraints, and (for a multi-segment completion)
// its segment topology.
type WellSpec struct {
	Name             string         `json:"name"`
	Group            string         `json:"group"`
	Type             string         `json:"type"` // "PRODUCER" or "INJECTOR"
	EfficiencyFactor float64        `json:"efficiencyFactor"`
	SelfIndex        int            `json:"selfIndex"`
	HardShut         bool           `json:"hardShut"`
	Production       ProductionSpec `json:"production"`
	Injection        InjectionSpec  `json:"injection"`
	Gravity          float64        `json:"gravity"`
	Segments         []SegmentSpec  `json:"segments"`
}

// Data is the full contents of one schedule JSON file.
type Data struct {
	Groups   []GroupSpec   `json:"groups"`
	Wells    []WellSpec    `json:"wells"`
	Aquifers []AquiferSpec `json:"aquifers"`
}

// ReadSchedule reads and decodes a schedule JSON file, following inp.ReadMat's
// read-then-unmarshal convention.
func ReadSchedule(dir, fn string) (*Data, error) {
	b, err := io.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, err
	}
	d := new(Data)
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	return d, nil
}
