package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type ComponentType string

const (
	// Scorable components
	ComponentTrueFalse            ComponentType = "true_false"
	ComponentMultipleChoiceSingle ComponentType = "multiple_choice_single"
	ComponentMultipleChoiceMulti  ComponentType = "multiple_choice_multi"
	ComponentCustom               ComponentType = "custom_component"
	ComponentShortTextAnswer      ComponentType = "short_text_answer"
	ComponentSingleCheckbox       ComponentType = "single_checkbox"
	ComponentToggleButton         ComponentType = "toggle_button"
	ComponentNumericSlider        ComponentType = "numeric_slider"
	ComponentDiscreteSlider       ComponentType = "discrete_slider"
	ComponentRanking              ComponentType = "ranking"
	ComponentMatchingPairs        ComponentType = "matching_pairs"
	ComponentShape                ComponentType = "shape"

	// Decorative components
	ComponentText        ComponentType = "text"
	ComponentImageUpload ComponentType = "image_upload"
	ComponentLine        ComponentType = "line"
)

// SubItemCheckbox is the only custom_component sub-item kind that takes part in scoring.
const SubItemCheckbox = "checkbox"

// Component is one element placed on a question canvas. Answer-key fields are
// loosely typed because builder documents may carry "true" or "50" where a
// boolean or number was meant.
type Component struct {
	ID    int           `json:"id" yaml:"id"`
	Type  ComponentType `json:"type" yaml:"type" validate:"required,component_type"`
	Label string        `json:"label,omitempty" yaml:"label,omitempty"`

	Value          any `json:"value,omitempty" yaml:"value,omitempty"`                   // true_false
	CorrectIndex   any `json:"correctIndex,omitempty" yaml:"correctIndex,omitempty"`     // multiple_choice_single
	CorrectAnswers any `json:"correctAnswers,omitempty" yaml:"correctAnswers,omitempty"` // multiple_choice_multi
	CorrectAnswer  any `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`   // short_text_answer
	CorrectValue   any `json:"correctValue,omitempty" yaml:"correctValue,omitempty"`     // single_checkbox
	Toggled        any `json:"toggled,omitempty" yaml:"toggled,omitempty"`               // toggle_button
	TargetValue    any `json:"targetValue,omitempty" yaml:"targetValue,omitempty"`       // numeric_slider
	MinValue       any `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue       any `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	SelectedIndex  any `json:"selectedIndex,omitempty" yaml:"selectedIndex,omitempty"` // discrete_slider
	CorrectOrder   any `json:"correctOrder,omitempty" yaml:"correctOrder,omitempty"`   // ranking

	Options  []any       `json:"options,omitempty" yaml:"options,omitempty"`
	Items    []any       `json:"items,omitempty" yaml:"items,omitempty"`
	Pairs    []MatchPair `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	SubItems []SubItem   `json:"subItems,omitempty" yaml:"subItems,omitempty"`
}

// MatchPair is an authored {left, right} label pair or a learner's pairing of indices.
type MatchPair struct {
	Left  any `json:"left" yaml:"left"`
	Right any `json:"right" yaml:"right"`
}

// SubItem is one element of a custom component. Builders emit ids as either
// strings or numbers.
type SubItem struct {
	ID    any    `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Key returns the sub-item id as a string, or "" when it is missing.
func (s SubItem) Key() string {
	if s.ID == nil {
		return ""
	}
	return fmt.Sprint(s.ID)
}

// Components is the jsonb column holding a question's canvas.
type Components []Component

func (c Components) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal components: %w", err)
	}
	return string(b), nil
}

func (c *Components) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = Components{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("components: unsupported scan source")
	}
	return json.Unmarshal(data, c)
}

// GormDataType maps the column onto the jsonb type used by the other JSON columns.
func (Components) GormDataType() string {
	return "jsonb"
}

// Find returns the component with the given id.
func (c Components) Find(id int) (*Component, bool) {
	for i := range c {
		if c[i].ID == id {
			return &c[i], true
		}
	}
	return nil, false
}
