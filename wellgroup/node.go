// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wellgroup

import "github.com/dr-robertk/opm-simulators/wellspec"

// RateSource is the external collaborator exposing a leaf well's current
// BHP and per-phase reservoir/surface rates, indexed by the well's own
// integer index (mirrors the flat well_bhp/well_reservoirrates_phase/
// well_surfacerates_phase vectors the original passes by reference).
type RateSource interface {
	BHP(wellIndex int) float64
	ReservoirRate(wellIndex int, phase wellspec.Phase) float64
	SurfaceRate(wellIndex int, phase wellspec.Phase) float64
}

// PhaseRateFunc is a (wellIndex, phase) rate lookup, matching the method
// value type of RateSource.ReservoirRate/SurfaceRate so either can be
// passed directly to GetTotalProductionFlow.
type PhaseRateFunc func(wellIndex int, phase wellspec.Phase) float64

// Node is one entry of the well/group control tree: either a GroupNode
// (internal, owns children) or a WellNode (leaf, owns no children). Ownership
// flows parent-to-child through the tree; Parent returns a non-owning
// back-reference (§9's redesign of the original's raw parent pointer).
type Node interface {
	Name() string
	IsLeaf() bool
	Parent() Node
	SetParent(Node)
	FindGroup(name string) Node

	ProdSpec() *ProductionSpecification
	InjSpec() *InjectionSpecification
	EfficiencyFactor() float64
	AccumulatedEfficiency() float64

	IndividualControl() bool
	SetIndividualControl(bool)
	ShouldUpdateWellTargets() bool
	SetShouldUpdateWellTargets(bool)

	IsProducer() bool
	IsInjector() bool
	NumberOfLeafNodes() int

	ProductionGuideRate(onlyGroup bool) float64
	InjectionGuideRate(onlyGroup bool) float64

	ConditionsMet(src RateSource, summed *WellPhasesSummed) (bool, error)
	ApplyProdGroupControl(mode wellspec.ProdCMode, target float64, onlyGroup bool) error
	ApplyInjGroupControl(mode wellspec.InjCMode, target float64, onlyGroup bool) error
	ApplyProdGroupControls() error
	ApplyInjGroupControls() error

	WorstOffending(src RateSource, mode wellspec.ProdCMode) (*WellNode, float64, error)
	GetTotalProductionFlow(rates PhaseRateFunc, phase wellspec.Phase) float64
	GetProductionRate(src RateSource, mode wellspec.ProdCMode) (float64, error)
	ApplyExplicitReinjectionControls(src RateSource) error
	UpdateWellProductionTargets(src RateSource) error
	UpdateWellInjectionTargets(src RateSource) error
}

// baseNode holds the fields shared by every tree node (mirrors
// WellsGroupInterface's private state).
type baseNode struct {
	name                    string
	efficiencyFactor        float64
	prodSpec                ProductionSpecification
	injSpec                 InjectionSpecification
	parent                  Node
	individualControl       bool
	shouldUpdateWellTargets bool
}

func newBaseNode(name string, efficiency float64, prodSpec ProductionSpecification, injSpec InjectionSpecification) baseNode {
	return baseNode{
		name:              name,
		efficiencyFactor:  efficiency,
		prodSpec:          prodSpec,
		injSpec:           injSpec,
		individualControl: true, // always begin under individual control
	}
}

func (b *baseNode) Name() string                    { return b.name }
func (b *baseNode) Parent() Node                     { return b.parent }
func (b *baseNode) SetParent(p Node)                 { b.parent = p }
func (b *baseNode) ProdSpec() *ProductionSpecification { return &b.prodSpec }
func (b *baseNode) InjSpec() *InjectionSpecification   { return &b.injSpec }
func (b *baseNode) EfficiencyFactor() float64        { return b.efficiencyFactor }
func (b *baseNode) IndividualControl() bool          { return b.individualControl }
func (b *baseNode) SetIndividualControl(v bool)      { b.individualControl = v }
func (b *baseNode) ShouldUpdateWellTargets() bool    { return b.shouldUpdateWellTargets }
func (b *baseNode) SetShouldUpdateWellTargets(v bool) { b.shouldUpdateWellTargets = v }

// AccumulatedEfficiency climbs parent pointers to the root, multiplying
// efficiency factors along the way (mirrors getAccumulativeEfficiencyFactor).
func (b *baseNode) AccumulatedEfficiency() float64 {
	f := b.efficiencyFactor
	for p := b.parent; p != nil; p = p.Parent() {
		f *= p.EfficiencyFactor()
	}
	return f
}

// GroupNode is an internal tree node owning zero or more children, each
// either another GroupNode or a leaf WellNode.
type GroupNode struct {
	baseNode
	children []Node
}

// NewGroupNode constructs a group with no children.
func NewGroupNode(name string, efficiency float64, prodSpec ProductionSpecification, injSpec InjectionSpecification) *GroupNode {
	return &GroupNode{baseNode: newBaseNode(name, efficiency, prodSpec, injSpec)}
}

// AddChild attaches a child node and points its parent back at g.
func (g *GroupNode) AddChild(c Node) {
	c.SetParent(g)
	g.children = append(g.children, c)
}

func (g *GroupNode) IsLeaf() bool { return false }

func (g *GroupNode) FindGroup(name string) Node {
	if g.name == name {
		return g
	}
	for _, c := range g.children {
		if found := c.FindGroup(name); found != nil {
			return found
		}
	}
	return nil
}

func (g *GroupNode) NumberOfLeafNodes() int {
	sum := 0
	for _, c := range g.children {
		sum += c.NumberOfLeafNodes()
	}
	return sum
}

func (g *GroupNode) IsProducer() bool { return false }
func (g *GroupNode) IsInjector() bool { return false }

// GetProductionRate is unimplemented at the group level, mirroring the
// original's TODO stub: no caller queries a group's own production rate
// directly, only its children's.
func (g *GroupNode) GetProductionRate(src RateSource, mode wellspec.ProdCMode) (float64, error) {
	return -1e98, nil
}

// WellNode is a leaf tree node representing one physical well: its own
// control list, current active control, and optional group-control slot.
type WellNode struct {
	baseNode

	wellType  WellType
	selfIndex int

	controls          []WellControl
	currentControl    int // index into controls, or -1 if none active yet
	groupControlIndex int // index of the control slot owned by group control, -1 if none

	// HardShut selects ShutWell's behavior on a worst-offending violation:
	// true stops the well outright, false chokes it to a zero-rate
	// surface-rate control and leaves it open (mirrors shut_well_).
	HardShut bool
	stopped  bool
}

// NewWellNode constructs a leaf well with no controls installed yet.
func NewWellNode(name string, efficiency float64, prodSpec ProductionSpecification, injSpec InjectionSpecification, wellType WellType, selfIndex int) *WellNode {
	return &WellNode{
		baseNode:          newBaseNode(name, efficiency, prodSpec, injSpec),
		wellType:          wellType,
		selfIndex:         selfIndex,
		currentControl:    -1,
		groupControlIndex: -1,
		HardShut:          true, // default for now, per the original
	}
}

// AddControl appends one control to the well's control list and returns its
// index.
func (w *WellNode) AddControl(c WellControl) int {
	w.controls = append(w.controls, c)
	return len(w.controls) - 1
}

// SetCurrentControl marks idx as the well's active control.
func (w *WellNode) SetCurrentControl(idx int) { w.currentControl = idx }

// CurrentControl returns the index of the well's active control, or -1.
func (w *WellNode) CurrentControl() int { return w.currentControl }

// GroupControlIndex returns the index of the control slot owned by group
// control, or -1 if the well has never been placed under group control.
func (w *WellNode) GroupControlIndex() int { return w.groupControlIndex }

// Stopped reports whether ShutWell has stopped this well outright.
func (w *WellNode) Stopped() bool { return w.stopped }

// SelfIndex returns the well's RateSource index.
func (w *WellNode) SelfIndex() int { return w.selfIndex }

func (w *WellNode) IsLeaf() bool { return true }

func (w *WellNode) FindGroup(name string) Node {
	if w.name == name {
		return w
	}
	return nil
}

func (w *WellNode) NumberOfLeafNodes() int { return 1 }

func (w *WellNode) IsProducer() bool { return w.wellType == Producer }
func (w *WellNode) IsInjector() bool { return w.wellType == Injector }

// ShutWell applies the worst-offending-well response: either stop the well
// outright, or choke it to a zero-rate open control (mirrors WellNode::shutWell).
func (w *WellNode) ShutWell() {
	if w.HardShut {
		w.stopped = true
		return
	}
	ctrl := WellControl{Type: wellspec.ControlSurfaceRate, Target: 0, Distr: [3]float64{1, 1, 1}}
	if w.groupControlIndex < 0 {
		w.groupControlIndex = w.AddControl(ctrl)
	} else {
		w.controls[w.groupControlIndex] = ctrl
	}
	w.currentControl = w.groupControlIndex
	w.stopped = false
}
