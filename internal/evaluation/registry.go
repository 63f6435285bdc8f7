package evaluation

import (
	"sort"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

var scorableTypes = map[models.ComponentType]struct{}{
	models.ComponentTrueFalse:            {},
	models.ComponentMultipleChoiceSingle: {},
	models.ComponentMultipleChoiceMulti:  {},
	models.ComponentCustom:               {},
	models.ComponentShortTextAnswer:      {},
	models.ComponentSingleCheckbox:       {},
	models.ComponentToggleButton:         {},
	models.ComponentNumericSlider:        {},
	models.ComponentDiscreteSlider:       {},
	models.ComponentRanking:              {},
	models.ComponentMatchingPairs:        {},
	models.ComponentShape:                {},
}

var decorativeTypes = map[models.ComponentType]struct{}{
	models.ComponentText:        {},
	models.ComponentImageUpload: {},
	models.ComponentLine:        {},
}

// IsScorableType reports whether a correctness rule may apply to components of type t.
func IsScorableType(t models.ComponentType) bool {
	_, ok := scorableTypes[t]
	return ok
}

// IsKnownType reports whether t is a component type the builder can place on a canvas.
func IsKnownType(t models.ComponentType) bool {
	if IsScorableType(t) {
		return true
	}
	_, ok := decorativeTypes[t]
	return ok
}

// ScorableTypes returns the scorable set in a stable order.
func ScorableTypes() []models.ComponentType {
	out := make([]models.ComponentType, 0, len(scorableTypes))
	for t := range scorableTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
