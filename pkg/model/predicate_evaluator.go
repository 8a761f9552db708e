package model

type predicateEvaluator interface {
	// Checks whether any meeting of the section overlaps a meeting of a section already in the assignment
	Collides(section Section, assignment Assignment) bool

	// Checks whether any meeting of the section starts before or ends after the allowed window of its day
	OutsideWindow(section Section) bool

	// Checks whether the section agrees with the linked-section reference between itself and the section assigned to its sibling variable
	Paired(variable Variable, section Section, assignment Assignment) bool
}

func newPredicateEvaluator(window TimeWindow, linkSections bool) predicateEvaluator {
	return &predicateEvaluatorStandard{
		window:       window,
		linkSections: linkSections,
	}
}

type predicateEvaluatorStandard struct {
	window       TimeWindow
	linkSections bool
}

func (evaluator *predicateEvaluatorStandard) Collides(section Section, assignment Assignment) bool {
	for _, block := range section.Blocks {
		for _, assigned := range assignment {
			for _, assignedBlock := range assigned.Blocks {
				if Overlaps(block, assignedBlock) {
					return true
				}
			}
		}
	}
	return false
}

func (evaluator *predicateEvaluatorStandard) OutsideWindow(section Section) bool {
	if len(evaluator.window) == 0 {
		return false
	}
	for _, block := range section.Blocks {
		if ViolatesWindow(block, evaluator.window) {
			return true
		}
	}
	return false
}

func (evaluator *predicateEvaluatorStandard) Paired(variable Variable, section Section, assignment Assignment) bool {
	if !evaluator.linkSections {
		return true
	}

	sibling, ok := assignment[variable.Sibling()]
	if !ok {
		return true
	}
	if section.LinkedSection != "" && section.LinkedSection != sibling.Code {
		return false
	}
	return sibling.LinkedSection == "" || sibling.LinkedSection == section.Code
}
