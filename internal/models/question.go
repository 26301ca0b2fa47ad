package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// QuestionType enumerates the question variants a built form may contain.
type QuestionType string

const (
	QuestionHeader      QuestionType = "header"
	QuestionDivider     QuestionType = "divider"
	QuestionSpacer      QuestionType = "spacer"
	QuestionSection     QuestionType = "section"
	QuestionImage       QuestionType = "image"
	QuestionHyperlink   QuestionType = "hyperlink"
	QuestionSignature   QuestionType = "signature"
	QuestionStopwatch   QuestionType = "stopwatch"
	QuestionTemperature QuestionType = "temperature"
	QuestionImageUpload QuestionType = "imageUpload"
	QuestionRating      QuestionType = "rating"
	QuestionTextShort   QuestionType = "textShort"
	QuestionTextLong    QuestionType = "textLong"
	QuestionNumber      QuestionType = "number"
	QuestionTally       QuestionType = "tally"
	QuestionRadio       QuestionType = "radio"
	QuestionCheckbox    QuestionType = "checkbox"
	QuestionSelect      QuestionType = "select"
	QuestionDatePicker  QuestionType = "datePicker"
	QuestionTimePicker  QuestionType = "timePicker"
)

var questionTypes = map[QuestionType]bool{
	QuestionHeader:      true,
	QuestionDivider:     true,
	QuestionSpacer:      true,
	QuestionSection:     true,
	QuestionImage:       true,
	QuestionHyperlink:   true,
	QuestionSignature:   true,
	QuestionStopwatch:   true,
	QuestionTemperature: true,
	QuestionImageUpload: true,
	QuestionRating:      true,
	QuestionTextShort:   true,
	QuestionTextLong:    true,
	QuestionNumber:      true,
	QuestionTally:       true,
	QuestionRadio:       true,
	QuestionCheckbox:    true,
	QuestionSelect:      true,
	QuestionDatePicker:  true,
	QuestionTimePicker:  true,
}

// KnownQuestionType reports whether t is part of the question catalog.
func KnownQuestionType(t QuestionType) bool {
	return questionTypes[t]
}

// GroupAll is the reserved wildcard group matching every question in a form.
const GroupAll = "ALL"

// Question is one node of a built form schema. Sections nest further
// questions; options and number questions may carry conditional follow-ups.
type Question struct {
	Title            string       `json:"title,omitempty"`
	Type             QuestionType `json:"type,omitempty"`
	Settings         Settings     `json:"settings,omitempty"`
	Options          []Option     `json:"options,omitempty"`
	GroupIDs         []string     `json:"groupIds,omitempty"`
	Required         bool         `json:"required,omitempty"`
	EnableComments   bool         `json:"enableComments,omitempty"`
	Questions        []Question   `json:"questions,omitempty"`
	FollowUpQuestion *Question    `json:"followUpQuestion,omitempty"`
}

// Option is one selectable choice on a radio, checkbox, select or
// stopwatch question. A choice may award points and may reveal a single
// follow-up question when picked.
type Option struct {
	Title    string    `json:"title"`
	Points   float64   `json:"points,omitempty"`
	Question *Question `json:"question,omitempty"`
}

// Settings holds per-question presentation and behavior switches, keyed by
// setting name. Models emit values as strings, numbers or booleans; every
// scalar is kept in its string form so the catalog's worked examples
// (minMax: true, points: 5) decode alongside plain string settings.
type Settings map[string]string

func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Settings, len(raw))
	for key, val := range raw {
		if string(val) == "null" {
			continue
		}
		str, err := scalarString(val)
		if err != nil {
			return fmt.Errorf("settings.%s: %w", key, err)
		}
		out[key] = str
	}
	*s = out
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String(), nil
	}
	return "", errors.New("value is not a string, number or boolean")
}
