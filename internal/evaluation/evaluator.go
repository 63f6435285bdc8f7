package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// rule compares one submitted answer against a component's answer key.
type rule func(c *models.Component, submitted any) models.Verdict

// rules holds one comparison per scorable type. Shape is scorable but has no rule,
// so it always evaluates to VerdictNone.
var rules = map[models.ComponentType]rule{
	models.ComponentTrueFalse:            evalTrueFalse,
	models.ComponentMultipleChoiceSingle: evalSingleChoice,
	models.ComponentMultipleChoiceMulti:  evalMultiChoice,
	models.ComponentCustom:               evalCustom,
	models.ComponentShortTextAnswer:      evalShortText,
	models.ComponentSingleCheckbox:       evalCheckbox,
	models.ComponentToggleButton:         evalToggle,
	models.ComponentNumericSlider:        evalNumericSlider,
	models.ComponentDiscreteSlider:       evalDiscreteSlider,
	models.ComponentRanking:              evalRanking,
	models.ComponentMatchingPairs:        evalMatchingPairs,
}

// Evaluate compares a learner's answer with the component's answer key. Malformed
// keys or answers yield VerdictIncorrect; types without a rule yield VerdictNone.
// It never panics and holds no state between calls.
func Evaluate(c *models.Component, submitted any) (v models.Verdict) {
	if c == nil {
		return models.VerdictNone
	}
	r, ok := rules[c.Type]
	if !ok || !IsScorableType(c.Type) {
		return models.VerdictNone
	}
	defer func() {
		if recover() != nil {
			v = models.VerdictIncorrect
		}
	}()
	return r(c, submitted)
}

// EvaluateQuestion evaluates every component of q against the learner's answers.
// Components without a rule appear in the result with VerdictNone.
func EvaluateQuestion(q *models.Question, answers models.QuestionAnswers) models.VerdictMap {
	verdicts := make(models.VerdictMap)
	if q == nil {
		return verdicts
	}
	for i := range q.Components {
		c := &q.Components[i]
		verdicts[c.ID] = Evaluate(c, answers[c.ID])
	}
	return verdicts
}

// IsQuestionCorrect aggregates component verdicts: the question is correct when at
// least one component was evaluable and every evaluable component is correct.
func IsQuestionCorrect(verdicts models.VerdictMap) bool {
	evaluated := 0
	for _, v := range verdicts {
		if !v.Evaluable() {
			continue
		}
		if v != models.VerdictCorrect {
			return false
		}
		evaluated++
	}
	return evaluated > 0
}

func verdictOf(ok bool) models.Verdict {
	if ok {
		return models.VerdictCorrect
	}
	return models.VerdictIncorrect
}

func evalTrueFalse(c *models.Component, submitted any) models.Verdict {
	if submitted == nil || c.Value == nil {
		return models.VerdictIncorrect
	}
	return verdictOf(strings.ToLower(stringify(submitted)) == strings.ToLower(stringify(c.Value)))
}

func evalSingleChoice(c *models.Component, submitted any) models.Verdict {
	if submitted == nil || c.CorrectIndex == nil {
		return models.VerdictIncorrect
	}
	return verdictOf(stringify(submitted) == stringify(c.CorrectIndex))
}

// evalMultiChoice compares selections as sets of indices.
func evalMultiChoice(c *models.Component, submitted any) models.Verdict {
	got, ok := asSlice(submitted)
	if !ok {
		return models.VerdictIncorrect
	}
	want, ok := asSlice(c.CorrectAnswers)
	if !ok || len(got) != len(want) {
		return models.VerdictIncorrect
	}
	a, b := sortedStrings(got), sortedStrings(want)
	for i := range a {
		if a[i] != b[i] {
			return models.VerdictIncorrect
		}
	}
	return models.VerdictCorrect
}

// evalCustom checks checkbox sub-items only; other sub-item kinds do not affect the verdict.
func evalCustom(c *models.Component, submitted any) models.Verdict {
	if !truthy(submitted) {
		return models.VerdictIncorrect
	}
	for _, sub := range c.SubItems {
		if sub.Type != models.SubItemCheckbox {
			continue
		}
		if isTrue(sub.Value) != isTrue(lookupKey(submitted, stringify(sub.ID))) {
			return models.VerdictIncorrect
		}
	}
	return models.VerdictCorrect
}

// evalShortText is case-sensitive; only surrounding whitespace is ignored.
func evalShortText(c *models.Component, submitted any) models.Verdict {
	got, ok := submitted.(string)
	if !ok {
		return models.VerdictIncorrect
	}
	want := ""
	if c.CorrectAnswer != nil {
		want = stringify(c.CorrectAnswer)
	}
	return verdictOf(strings.TrimSpace(got) == strings.TrimSpace(want))
}

func evalCheckbox(c *models.Component, submitted any) models.Verdict {
	return compareFlag(c.CorrectValue, submitted)
}

func evalToggle(c *models.Component, submitted any) models.Verdict {
	return compareFlag(c.Toggled, submitted)
}

// compareFlag treats an absent answer as an unchecked box.
func compareFlag(key, submitted any) models.Verdict {
	want, ok := authoredFlag(key)
	if !ok {
		return models.VerdictIncorrect
	}
	got := false
	if submitted != nil {
		b, ok := submitted.(bool)
		if !ok {
			return models.VerdictIncorrect
		}
		got = b
	}
	return verdictOf(got == want)
}

// evalNumericSlider matches an exact target when one is authored, otherwise an inclusive range.
func evalNumericSlider(c *models.Component, submitted any) models.Verdict {
	got, ok := asNumber(submitted)
	if !ok {
		return models.VerdictIncorrect
	}
	if c.TargetValue != nil {
		target, ok := toNumber(c.TargetValue)
		return verdictOf(ok && got == target)
	}
	lo, okLo := toNumber(c.MinValue)
	hi, okHi := toNumber(c.MaxValue)
	if c.MinValue == nil || c.MaxValue == nil || !okLo || !okHi {
		return models.VerdictIncorrect
	}
	return verdictOf(lo <= got && got <= hi)
}

func evalDiscreteSlider(c *models.Component, submitted any) models.Verdict {
	got, ok := asNumber(submitted)
	if !ok {
		return models.VerdictIncorrect
	}
	want, ok := asNumber(c.SelectedIndex)
	return verdictOf(ok && got == want)
}

// evalRanking is order-sensitive. The authored order is padded with the missing
// trailing indices, or truncated, to the number of items before comparing.
func evalRanking(c *models.Component, submitted any) models.Verdict {
	got, ok := asSlice(submitted)
	if !ok {
		return models.VerdictIncorrect
	}
	order, ok := asSlice(c.CorrectOrder)
	if !ok {
		return models.VerdictIncorrect
	}
	n := len(order)
	if c.Items != nil {
		n = len(c.Items)
	}
	want := make([]any, 0, n)
	for i := 0; i < n; i++ {
		if i < len(order) {
			want = append(want, order[i])
		} else {
			want = append(want, i)
		}
	}
	return verdictOf(joinStrings(got) == joinStrings(want))
}

// evalMatchingPairs expects the identity pairing; submission order is irrelevant.
func evalMatchingPairs(c *models.Component, submitted any) models.Verdict {
	entries, ok := asSlice(submitted)
	if !ok {
		return models.VerdictIncorrect
	}
	got := make([]string, len(entries))
	for i, entry := range entries {
		left, right := pairSides(entry)
		got[i] = stringify(left) + "-" + stringify(right)
	}
	want := make([]string, len(c.Pairs))
	for i := range c.Pairs {
		want[i] = fmt.Sprintf("%d-%d", i, i)
	}
	sort.Strings(got)
	sort.Strings(want)
	return verdictOf(strings.Join(got, ",") == strings.Join(want, ","))
}

func sortedStrings(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = stringify(item)
	}
	sort.Strings(out)
	return out
}
