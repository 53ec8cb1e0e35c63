// Copyright 2024 The opm-simulators-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wellgroup

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"

	"github.com/dr-robertk/opm-simulators/wellspec"
)

func rateByModeProd(res, surf [3]float64, mode wellspec.ProdCMode) (float64, error) {
	switch mode {
	case wellspec.ORAT:
		return surf[wellspec.Oil], nil
	case wellspec.WRAT:
		return surf[wellspec.Water], nil
	case wellspec.GRAT:
		return surf[wellspec.Gas], nil
	case wellspec.LRAT:
		return surf[wellspec.Oil] + surf[wellspec.Water], nil
	case wellspec.RESVProd:
		return res[0] + res[1] + res[2], nil
	default:
		return 0, chk.Err("wellgroup: no rate associated with production control mode %v", mode)
	}
}

func rateByModeInj(res, surf [3]float64, mode wellspec.InjCMode) (float64, error) {
	var rates [3]float64
	switch mode {
	case wellspec.RATE:
		rates = surf
	case wellspec.RESVInj:
		rates = res
	default:
		return 0, chk.Err("wellgroup: no rate associated with injection control mode %v", mode)
	}
	return rates[0] + rates[1] + rates[2], nil
}

func getProdTarget(spec *ProductionSpecification, mode wellspec.ProdCMode) (float64, error) {
	switch mode {
	case wellspec.GRAT:
		return spec.GasMaxRate, nil
	case wellspec.WRAT:
		return spec.WaterMaxRate, nil
	case wellspec.ORAT:
		return spec.OilMaxRate, nil
	case wellspec.RESVProd:
		return spec.ReservoirFlowMaxRate, nil
	case wellspec.LRAT:
		return spec.LiquidMaxRate, nil
	case wellspec.GRUPProd:
		return 0, chk.Err("wellgroup: can't query target production rate for GRUP control")
	default:
		return 0, chk.Err("wellgroup: unsupported control mode to query target %v", mode)
	}
}

func getInjTarget(spec *InjectionSpecification, mode wellspec.InjCMode) (float64, error) {
	switch mode {
	case wellspec.RATE:
		return spec.SurfaceFlowMaxRate, nil
	case wellspec.RESVInj:
		return spec.ReservoirFlowMaxRate, nil
	case wellspec.GRUPInj:
		return 0, chk.Err("wellgroup: can't query target injection rate for GRUP control")
	default:
		return 0, chk.Err("wellgroup: unsupported control mode to query target %v", mode)
	}
}

// ---- GroupNode ----

// ProductionGuideRate sums children's production guide rates; when
// onlyGroup is set, children still under individual control contribute zero.
func (g *GroupNode) ProductionGuideRate(onlyGroup bool) float64 {
	sum := 0.0
	for _, c := range g.children {
		if onlyGroup && c.IndividualControl() {
			continue
		}
		sum += c.ProductionGuideRate(onlyGroup)
	}
	return sum
}

// InjectionGuideRate sums children's injection guide rates unconditionally
// of onlyGroup, mirroring WellsGroup::injectionGuideRate (which, unlike its
// production counterpart, never filters by individual control at this level).
func (g *GroupNode) InjectionGuideRate(onlyGroup bool) float64 {
	sum := 0.0
	for _, c := range g.children {
		sum += c.InjectionGuideRate(onlyGroup)
	}
	return sum
}

// ApplyInjGroupControl redistributes target to children by injection guide
// rate, so their combined rate under control_mode equals target divided by
// this group's efficiency factor.
func (g *GroupNode) ApplyInjGroupControl(mode wellspec.InjCMode, target float64, onlyGroup bool) error {
	if g.injSpec.ControlMode == wellspec.InjNone {
		return nil
	}
	if !onlyGroup || g.injSpec.ControlMode == wellspec.FLDInj {
		myGuide := g.InjectionGuideRate(onlyGroup)
		if myGuide == 0 {
			return nil
		}
		for _, c := range g.children {
			childTarget := target / g.EfficiencyFactor() * c.InjectionGuideRate(onlyGroup) / myGuide
			if err := c.ApplyInjGroupControl(mode, childTarget, false); err != nil {
				return err
			}
		}
		g.injSpec.ControlMode = wellspec.FLDInj
	}
	return nil
}

// ApplyProdGroupControl redistributes target to children by production
// guide rate. The guide-rate denominator is always computed with
// onlyGroup=false, reproducing the original's call (a quirk of the source:
// the commented-out productionGuideRate(true) line was never switched in).
func (g *GroupNode) ApplyProdGroupControl(mode wellspec.ProdCMode, target float64, onlyGroup bool) error {
	if g.prodSpec.ControlMode == wellspec.ProdNone {
		return nil
	}
	if !onlyGroup || g.prodSpec.ControlMode == wellspec.FLDProd {
		myGuide := g.ProductionGuideRate(false)
		if myGuide == 0 {
			return nil
		}
		for _, c := range g.children {
			childTarget := target / g.EfficiencyFactor() * c.ProductionGuideRate(onlyGroup) / myGuide
			if err := c.ApplyProdGroupControl(mode, childTarget, false); err != nil {
				return err
			}
		}
		g.prodSpec.ControlMode = wellspec.FLDProd
	}
	return nil
}

// WorstOffending finds the descendant well with the largest rate under mode,
// the first child winning ties (mirrors getWorstOffending's i==0 seed).
func (g *GroupNode) WorstOffending(src RateSource, mode wellspec.ProdCMode) (*WellNode, float64, error) {
	var best *WellNode
	var bestRate float64
	for i, c := range g.children {
		w, rate, err := c.WorstOffending(src, mode)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 || rate > bestRate {
			best, bestRate = w, rate
		}
	}
	return best, bestRate, nil
}

// GetTotalProductionFlow sums rates(wellIndex, phase) over every producing
// descendant.
func (g *GroupNode) GetTotalProductionFlow(rates PhaseRateFunc, phase wellspec.Phase) float64 {
	sum := 0.0
	for _, c := range g.children {
		sum += c.GetTotalProductionFlow(rates, phase)
	}
	return sum
}

// ConditionsMet recursively checks children, then this group's own
// injection and production constraints, applying the configured response
// (shut the worst well, fall back to group-rate control, or do nothing) on
// the first violation found (mirrors WellsGroup::conditionsMet).
func (g *GroupNode) ConditionsMet(src RateSource, summed *WellPhasesSummed) (bool, error) {
	var childPhases WellPhasesSummed
	for _, c := range g.children {
		var cur WellPhasesSummed
		ok, err := c.ConditionsMet(src, &cur)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		childPhases.Add(&cur)
	}

	for _, mode := range [2]wellspec.InjCMode{wellspec.RATE, wellspec.RESVInj} {
		if g.injSpec.ControlMode == mode {
			continue
		}
		targetRate, err := getInjTarget(&g.injSpec, mode)
		if err != nil {
			return false, err
		}
		if targetRate < 0.0 {
			continue
		}
		myRate, err := rateByModeInj(childPhases.ResInjRates, childPhases.SurfInjRates, mode)
		if err != nil {
			return false, err
		}
		if myRate > targetRate {
			logrus.WithFields(logrus.Fields{"group": g.name, "mode": mode.String(), "target": targetRate, "rate": myRate}).
				Warn("wellgroup: injection target not met")
			if err := g.ApplyInjGroupControl(mode, targetRate, false); err != nil {
				return false, err
			}
			g.injSpec.ControlMode = mode
			return false, nil
		}
	}

	// REIN is deliberately left unchecked here, matching the original's own
	// "\TODO: Add support for REIN controls" at this point in the check.

	prodModes := [5]wellspec.ProdCMode{wellspec.ORAT, wellspec.WRAT, wellspec.GRAT, wellspec.LRAT, wellspec.RESVProd}
	violated := false
	var violatedMode wellspec.ProdCMode
	for _, mode := range prodModes {
		if g.prodSpec.ControlMode == mode {
			continue
		}
		targetRate, err := getProdTarget(&g.prodSpec, mode)
		if err != nil {
			return false, err
		}
		if targetRate < 0.0 {
			continue
		}
		myRate, err := rateByModeProd(childPhases.ResProdRates, childPhases.SurfProdRates, mode)
		if err != nil {
			return false, err
		}
		if math.Abs(myRate) > targetRate {
			logrus.WithFields(logrus.Fields{"group": g.name, "mode": mode.String(), "target": targetRate, "rate": myRate}).
				Warn("wellgroup: production target not met")
			violated, violatedMode = true, mode
			break
		}
	}

	if violated {
		switch g.prodSpec.Procedure {
		case wellspec.ProcWELL:
			worst, _, err := g.WorstOffending(src, violatedMode)
			if err != nil {
				return false, err
			}
			if worst != nil {
				worst.ShutWell()
			}
			return false, nil
		case wellspec.ProcRATE:
			target, err := getProdTarget(&g.prodSpec, violatedMode)
			if err != nil {
				return false, err
			}
			if err := g.ApplyProdGroupControl(violatedMode, target, false); err != nil {
				return false, err
			}
			return false, nil
		case wellspec.ProcNoneP:
			return false, nil
		}
	}

	summed.Add(&childPhases)
	return true, nil
}

// ApplyProdGroupControls pushes this group's own active production control
// down to its children by guide rate, or simply recurses when the group
// itself carries no independent target.
func (g *GroupNode) ApplyProdGroupControls() error {
	switch g.prodSpec.ControlMode {
	case wellspec.ORAT, wellspec.WRAT, wellspec.LRAT, wellspec.RESVProd:
		myGuide := g.ProductionGuideRate(false)
		if myGuide == 0 {
			return chk.Err("wellgroup: group %s has zero guide-rate sum under group control", g.name)
		}
		target, err := getProdTarget(&g.prodSpec, g.prodSpec.ControlMode)
		if err != nil {
			return err
		}
		for _, c := range g.children {
			childGuide := c.ProductionGuideRate(false)
			if err := c.ApplyProdGroupControl(g.prodSpec.ControlMode, (childGuide/myGuide)*target, false); err != nil {
				return err
			}
		}
	case wellspec.FLDProd, wellspec.ProdNone:
		for _, c := range g.children {
			if err := c.ApplyProdGroupControls(); err != nil {
				return err
			}
		}
	default:
		return chk.Err("wellgroup: unhandled group production control mode %v", g.prodSpec.ControlMode)
	}
	return nil
}

// ApplyInjGroupControls mirrors ApplyProdGroupControls for injection, with
// VREP/REIN deferring to ApplyExplicitReinjectionControls instead.
func (g *GroupNode) ApplyInjGroupControls() error {
	switch g.injSpec.ControlMode {
	case wellspec.RATE, wellspec.RESVInj:
		myGuide := g.InjectionGuideRate(false)
		target, err := getInjTarget(&g.injSpec, g.injSpec.ControlMode)
		if err != nil {
			return err
		}
		for _, c := range g.children {
			childGuide := c.InjectionGuideRate(false)
			childTarget := (childGuide / myGuide) * target / g.EfficiencyFactor()
			if err := c.ApplyInjGroupControl(g.injSpec.ControlMode, childTarget, true); err != nil {
				return err
			}
		}
	case wellspec.VREP, wellspec.REIN:
		logrus.WithField("group", g.name).Info("wellgroup: replacement control active, call ApplyExplicitReinjectionControls to refresh targets")
	case wellspec.FLDInj, wellspec.InjNone:
		for _, c := range g.children {
			if err := c.ApplyInjGroupControls(); err != nil {
				return err
			}
		}
	default:
		return chk.Err("wellgroup: unhandled group injection control mode %v", g.injSpec.ControlMode)
	}
	return nil
}

// ApplyExplicitReinjectionControls implements REIN (reinject a fraction of
// one phase's total production) and VREP (reinject a fraction of total
// reservoir-voidage production across all active phases). Must be called
// once per timestep for groups under either mode.
func (g *GroupNode) ApplyExplicitReinjectionControls(src RateSource) error {
	switch g.injSpec.ControlMode {
	case wellspec.REIN:
		phase := wellspec.Water
		switch g.injSpec.InjectorType {
		case InjectWater:
			phase = wellspec.Water
		case InjectGas:
			phase = wellspec.Gas
		case InjectOil:
			phase = wellspec.Oil
		}
		totalProduced := g.GetTotalProductionFlow(src.SurfaceRate, phase)
		totalReinjected := -totalProduced
		myGuide := g.InjectionGuideRate(true)
		for _, c := range g.children {
			childGuide := c.InjectionGuideRate(true)
			target := (childGuide / myGuide) * totalReinjected * g.injSpec.ReinjectionFractionTarget
			if err := c.ApplyInjGroupControl(wellspec.RATE, target, true); err != nil {
				return err
			}
		}
	case wellspec.VREP:
		var totalProduced float64
		for _, phase := range [3]wellspec.Phase{wellspec.Water, wellspec.Oil, wellspec.Gas} {
			totalProduced += g.GetTotalProductionFlow(src.ReservoirRate, phase)
		}
		totalReinjected := -totalProduced
		myGuide := g.InjectionGuideRate(true)
		for _, c := range g.children {
			childGuide := c.InjectionGuideRate(true)
			target := (childGuide / myGuide) * totalReinjected * g.injSpec.VoidageReplacementFraction
			if err := c.ApplyInjGroupControl(wellspec.RESVInj, target, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateWellProductionTargets splits the rate remaining after
// individually-controlled producers among the group-controlled ones, by
// guide rate (mirrors WellsGroup::updateWellProductionTargets; handles only
// the level directly above wells, per the original's own caveat).
func (g *GroupNode) UpdateWellProductionTargets(src RateSource) error {
	prodMode := g.prodSpec.ControlMode
	var targetRate float64
	switch prodMode {
	case wellspec.FLDProd:
		parent := g.Parent()
		if parent == nil {
			return chk.Err("wellgroup: group %s has FLD control but no parent", g.name)
		}
		parentMode := parent.ProdSpec().ControlMode
		target, err := getProdTarget(parent.ProdSpec(), parentMode)
		if err != nil {
			return err
		}
		targetRate = target / parent.EfficiencyFactor()
	case wellspec.LRAT, wellspec.ORAT, wellspec.GRAT, wellspec.WRAT:
		target, err := getProdTarget(&g.prodSpec, prodMode)
		if err != nil {
			return err
		}
		targetRate = target
	default:
		return chk.Err("wellgroup: unsupported control mode %v when updating well targets", prodMode)
	}
	targetRate /= g.EfficiencyFactor()

	var rateIndividual float64
	for _, c := range g.children {
		if c.IndividualControl() && c.IsProducer() {
			rate, err := c.GetProductionRate(src, prodMode)
			if err != nil {
				return err
			}
			rateIndividual += math.Abs(rate * c.EfficiencyFactor())
		}
	}

	rateForGroup := targetRate - rateIndividual
	myGuide := g.ProductionGuideRate(true)
	for _, c := range g.children {
		if !c.IndividualControl() && c.IsProducer() {
			childGuide := c.ProductionGuideRate(true)
			if err := c.ApplyProdGroupControl(prodMode, (childGuide/myGuide)*rateForGroup, true); err != nil {
				return err
			}
			c.SetShouldUpdateWellTargets(false)
		}
	}
	return nil
}

// UpdateWellInjectionTargets is a deliberate no-op beyond clearing the
// update flag: the original leaves multi-injector group redistribution
// unimplemented pending a worked multi-well example (§9 Open Question 3).
func (g *GroupNode) UpdateWellInjectionTargets(src RateSource) error {
	for _, c := range g.children {
		if !c.IndividualControl() && c.IsInjector() {
			c.SetShouldUpdateWellTargets(false)
		}
	}
	return nil
}

// ---- WellNode ----

// ProductionGuideRate returns this well's configured guide rate, or zero
// when onlyGroup filtering excludes an individually-controlled well.
func (w *WellNode) ProductionGuideRate(onlyGroup bool) float64 {
	if !onlyGroup || !w.IndividualControl() {
		return w.prodSpec.GuideRate
	}
	return 0
}

// InjectionGuideRate mirrors ProductionGuideRate for injection.
func (w *WellNode) InjectionGuideRate(onlyGroup bool) float64 {
	if !onlyGroup || !w.IndividualControl() {
		return w.injSpec.GuideRate
	}
	return 0
}

// GetTotalProductionFlow returns this well's own rate, or zero if it is an
// injector.
func (w *WellNode) GetTotalProductionFlow(rates PhaseRateFunc, phase wellspec.Phase) float64 {
	if w.IsInjector() {
		return 0
	}
	return rates(w.selfIndex, phase)
}

// GetProductionRate returns this well's surface rate under mode, used by
// UpdateWellProductionTargets to net out individually-controlled producers.
func (w *WellNode) GetProductionRate(src RateSource, mode wellspec.ProdCMode) (float64, error) {
	flow := func(phase wellspec.Phase) float64 { return w.GetTotalProductionFlow(src.SurfaceRate, phase) }
	switch mode {
	case wellspec.LRAT:
		return flow(wellspec.Oil) + flow(wellspec.Water), nil
	case wellspec.ORAT:
		return flow(wellspec.Oil), nil
	case wellspec.WRAT:
		return flow(wellspec.Water), nil
	case wellspec.GRAT:
		return flow(wellspec.Gas), nil
	default:
		return 0, chk.Err("wellgroup: unsupported control mode %v for production-rate query", mode)
	}
}

// WorstOffending reports this well's own rate under mode: a leaf is always
// its own worst (and only) offender.
func (w *WellNode) WorstOffending(src RateSource, mode wellspec.ProdCMode) (*WellNode, float64, error) {
	res := [3]float64{src.ReservoirRate(w.selfIndex, wellspec.Oil), src.ReservoirRate(w.selfIndex, wellspec.Water), src.ReservoirRate(w.selfIndex, wellspec.Gas)}
	surf := [3]float64{src.SurfaceRate(w.selfIndex, wellspec.Oil), src.SurfaceRate(w.selfIndex, wellspec.Water), src.SurfaceRate(w.selfIndex, wellspec.Gas)}
	rate, err := rateByModeProd(res, surf, mode)
	return w, rate, err
}

// ApplyInjGroupControl installs or overwrites this well's group-control
// slot with a RATE/RESV target, scaled by its own efficiency factor.
func (w *WellNode) ApplyInjGroupControl(mode wellspec.InjCMode, target float64, onlyGroup bool) error {
	if !w.IsInjector() {
		return nil
	}
	if onlyGroup && w.IndividualControl() {
		return nil
	}
	effectiveTarget := target / w.EfficiencyFactor()

	var ctype wellspec.ControlType
	switch mode {
	case wellspec.RATE:
		ctype = wellspec.ControlSurfaceRate
	case wellspec.RESVInj:
		ctype = wellspec.ControlReservoirRate
	default:
		return chk.Err("wellgroup: group injection control mode not handled: %v", mode)
	}
	ctrl := WellControl{Type: ctype, Target: effectiveTarget, Distr: [3]float64{1, 1, 1}}
	if w.groupControlIndex < 0 {
		w.groupControlIndex = w.AddControl(ctrl)
	} else {
		w.controls[w.groupControlIndex] = ctrl
	}
	w.currentControl = w.groupControlIndex
	w.SetIndividualControl(false)
	return nil
}

// ApplyProdGroupControl installs or overwrites this well's group-control
// slot with a negated (producer-convention) rate target.
func (w *WellNode) ApplyProdGroupControl(mode wellspec.ProdCMode, target float64, onlyGroup bool) error {
	if !w.IsProducer() {
		return nil
	}
	if onlyGroup && w.IndividualControl() {
		return nil
	}
	ntarget := -target / w.EfficiencyFactor()

	var distr [3]float64
	var ctype wellspec.ControlType
	switch mode {
	case wellspec.ORAT:
		ctype = wellspec.ControlSurfaceRate
		distr[wellspec.Oil] = 1
	case wellspec.WRAT:
		ctype = wellspec.ControlSurfaceRate
		distr[wellspec.Water] = 1
	case wellspec.GRAT:
		ctype = wellspec.ControlSurfaceRate
		distr[wellspec.Gas] = 1
	case wellspec.LRAT:
		ctype = wellspec.ControlSurfaceRate
		distr[wellspec.Oil] = 1
		distr[wellspec.Water] = 1
	case wellspec.RESVProd:
		ctype = wellspec.ControlReservoirRate
		distr = [3]float64{1, 1, 1}
	default:
		return chk.Err("wellgroup: group production control mode not handled: %v", mode)
	}
	ctrl := WellControl{Type: ctype, Target: ntarget, Distr: distr}
	if w.groupControlIndex < 0 {
		w.groupControlIndex = w.AddControl(ctrl)
	} else {
		w.controls[w.groupControlIndex] = ctrl
	}
	w.currentControl = w.groupControlIndex
	return nil
}

func (w *WellNode) ApplyProdGroupControls() error           { return nil }
func (w *WellNode) ApplyInjGroupControls() error             { return nil }
func (w *WellNode) ApplyExplicitReinjectionControls(RateSource) error { return nil }
func (w *WellNode) UpdateWellProductionTargets(RateSource) error     { return nil }
func (w *WellNode) UpdateWellInjectionTargets(RateSource) error      { return nil }

// ConditionsMet reports this well's own rates into summed, then checks every
// control in its list that is neither the currently-active control nor the
// group-control slot; the first violated control is switched to, and false
// is returned (mirrors WellNode::conditionsMet).
func (w *WellNode) ConditionsMet(src RateSource, summed *WellPhasesSummed) (bool, error) {
	for _, phase := range [3]wellspec.Phase{wellspec.Oil, wellspec.Water, wellspec.Gas} {
		res := src.ReservoirRate(w.selfIndex, phase)
		surf := src.SurfaceRate(w.selfIndex, phase)
		if w.IsInjector() {
			summed.ResInjRates[phase] = res
			summed.SurfInjRates[phase] = surf
		} else {
			summed.ResProdRates[phase] = res
			summed.SurfProdRates[phase] = surf
		}
	}

	for idx, ctrl := range w.controls {
		if idx == w.currentControl || idx == w.groupControlIndex {
			continue
		}
		violated := false
		switch ctrl.Type {
		case wellspec.ControlBHP:
			bhp := src.BHP(w.selfIndex)
			if w.IsProducer() {
				violated = ctrl.Target > bhp
			} else {
				violated = ctrl.Target < bhp
			}
			if violated {
				logrus.WithFields(logrus.Fields{"well": w.name, "limit": ctrl.Target, "bhp": bhp}).Info("wellgroup: BHP limit violated")
			}
		case wellspec.ControlTHP:
			return false, chk.Err("wellgroup: THP constraint checking not implemented for well %s", w.name)
		case wellspec.ControlReservoirRate:
			var rate float64
			for _, phase := range [3]wellspec.Phase{wellspec.Oil, wellspec.Water, wellspec.Gas} {
				rate += ctrl.Distr[phase] * src.ReservoirRate(w.selfIndex, phase)
			}
			violated = math.Abs(rate)-math.Abs(ctrl.Target) > math.Max(math.Abs(rate), math.Abs(ctrl.Target))*1e-6
			if violated {
				logrus.WithFields(logrus.Fields{"well": w.name, "limit": ctrl.Target, "rate": rate}).Info("wellgroup: reservoir-rate limit violated")
			}
		case wellspec.ControlSurfaceRate:
			var rate float64
			for _, phase := range [3]wellspec.Phase{wellspec.Oil, wellspec.Water, wellspec.Gas} {
				rate += ctrl.Distr[phase] * src.SurfaceRate(w.selfIndex, phase)
			}
			violated = math.Abs(rate) > math.Abs(ctrl.Target)
			if violated {
				logrus.WithFields(logrus.Fields{"well": w.name, "limit": ctrl.Target, "rate": rate}).Info("wellgroup: surface-rate limit violated")
			}
		}
		if violated {
			w.currentControl = idx
			return false, nil
		}
	}
	return true, nil
}
