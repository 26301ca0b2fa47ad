package models

import (
	"fmt"
	"strings"
)

// MaxQuestionCount caps the flattened size of a built form. The count
// includes section children and conditional follow-up questions.
const MaxQuestionCount = 50

// Palette is the closed set of accepted settings.color values. Raw color
// values (hex, rgb) are never accepted.
var Palette = map[string]bool{
	"blue-low":         true,
	"blue-high":        true,
	"pink-low":         true,
	"pink-high":        true,
	"purple-low":       true,
	"purple-high":      true,
	"teal-low":         true,
	"teal-high":        true,
	"cyan-low":         true,
	"cyan-high":        true,
	"deep-orange-low":  true,
	"deep-orange-high": true,
	"grey-low":         true,
	"grey-high":        true,
	"success-low":      true,
	"success-high":     true,
	"warning-low":      true,
	"warning-high":     true,
	"danger-low":       true,
	"danger-high":      true,
}

// ValidationError reports every schema rule a built form violates. The
// validator never repairs data; callers decide whether to surface the
// violations or re-prompt with them.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Violations, "; "))
}

// ValidateQuestions checks a built question sequence against the catalog
// rules: recognized types, non-empty sections, palette colors, the
// flattened count ceiling and tally group references. All violations are
// collected before returning.
func ValidateQuestions(questions []Question) error {
	v := &schemaValidator{groups: make(map[string]bool)}
	for i := range questions {
		v.walk(fmt.Sprintf("questions[%d]", i), &questions[i])
	}

	if v.count > MaxQuestionCount {
		v.addf("questions: flattened count %d exceeds the maximum of %d", v.count, MaxQuestionCount)
	}
	for _, tally := range v.tallies {
		for _, group := range tally.groups {
			if group == GroupAll || v.groups[group] {
				continue
			}
			v.addf("%s.groupIds: group %q is not carried by any other question", tally.path, group)
		}
	}

	if len(v.violations) > 0 {
		return &ValidationError{Violations: v.violations}
	}
	return nil
}

type schemaValidator struct {
	violations []string
	count      int
	groups     map[string]bool
	tallies    []tallyRef
}

type tallyRef struct {
	path   string
	groups []string
}

func (v *schemaValidator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *schemaValidator) walk(path string, q *Question) {
	v.count++

	typ := q.Type
	if typ == "" && len(q.Questions) > 0 {
		// The catalog's own section example carries no type key; a bare
		// questions array is recognized as a section.
		typ = QuestionSection
	}

	switch {
	case typ == "":
		v.addf("%s.type: missing question type", path)
	case !KnownQuestionType(typ):
		v.addf("%s.type: unrecognized question type %q", path, string(typ))
	}

	if typ == QuestionSection && len(q.Questions) == 0 {
		v.addf("%s.questions: section must contain at least one question", path)
	}

	if color, ok := q.Settings["color"]; ok && !Palette[color] {
		v.addf("%s.settings.color: %q is not in the palette", path, color)
	}

	if typ == QuestionTally {
		v.tallies = append(v.tallies, tallyRef{path: path, groups: q.GroupIDs})
	} else {
		for _, group := range q.GroupIDs {
			v.groups[group] = true
		}
	}

	for i := range q.Questions {
		v.walk(fmt.Sprintf("%s.questions[%d]", path, i), &q.Questions[i])
	}
	for i := range q.Options {
		if q.Options[i].Question != nil {
			v.walk(fmt.Sprintf("%s.options[%d].question", path, i), q.Options[i].Question)
		}
	}
	if q.FollowUpQuestion != nil {
		v.walk(path+".followUpQuestion", q.FollowUpQuestion)
	}
}
