// Package validate checks request payloads for shape, type, and value range.
// Checks run in a fixed order and stop at the first violation: missing
// required attributes, then extraneous attributes, then per-field type (in
// declaration order), then per-field range. The single message produced for a
// multi-fault body is part of the API contract.
package validate

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/meltforce/gymtrack/internal/models"
)

// Error is a validation failure with its client-facing message.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

const (
	msgMissing    = "The request object is missing at least one of the required attributes"
	msgExtraneous = "The request object has extraneous attributes"

	msgNameLength  = "Name attribute can only be between 1 and 49 characters"
	msgNameCharset = "Name attribute can only contain alphanumeric and space characters"
	msgDate        = "Date attribute must be a valid date in dd/mm/yyyy format"
)

func typeError(field, want string) *Error {
	return &Error{fmt.Sprintf("Invalid data type for %s attribute, expected %s", field, want)}
}

func rangeError(field string, lo, hi int) *Error {
	return &Error{fmt.Sprintf("%s attribute can only be between %d and %d", field, lo, hi)}
}

// ExerciseBody validates a full exercise payload (create and full replace).
func ExerciseBody(body map[string]any) (*models.Exercise, error) {
	name, hasName := body["name"]
	weight, hasWeight := body["weight"]
	sets, hasSets := body["sets"]
	reps, hasReps := body["reps"]

	if !hasName || !hasWeight || !hasSets || !hasReps {
		return nil, &Error{msgMissing}
	}
	if len(body) > 4 {
		return nil, &Error{msgExtraneous}
	}

	nameStr, ok := name.(string)
	if !ok {
		return nil, typeError("name", "string")
	}
	weightNum, ok := weight.(float64)
	if !ok {
		return nil, typeError("weight", "number")
	}
	setsNum, ok := sets.(float64)
	if !ok {
		return nil, typeError("sets", "number")
	}
	repsNum, ok := reps.(float64)
	if !ok {
		return nil, typeError("reps", "number")
	}

	if err := checkName(nameStr); err != nil {
		return nil, err
	}
	if err := checkWeight(weightNum); err != nil {
		return nil, err
	}
	if err := checkSets(setsNum); err != nil {
		return nil, err
	}
	if err := checkReps(repsNum); err != nil {
		return nil, err
	}

	return &models.Exercise{Name: nameStr, Weight: weightNum, Sets: setsNum, Reps: repsNum}, nil
}

// ExercisePatchBody validates a partial exercise payload. Absent fields are
// fine; present fields are type- and range-checked, and the body may not
// carry anything beyond the recognized fields.
func ExercisePatchBody(body map[string]any) (*models.ExercisePatch, error) {
	p := &models.ExercisePatch{}
	recognized := 0

	if v, ok := body["name"]; ok {
		recognized++
		s, ok := v.(string)
		if !ok {
			return nil, typeError("name", "string")
		}
		if err := checkName(s); err != nil {
			return nil, err
		}
		p.Name = &s
	}
	if v, ok := body["weight"]; ok {
		recognized++
		n, ok := v.(float64)
		if !ok {
			return nil, typeError("weight", "number")
		}
		if err := checkWeight(n); err != nil {
			return nil, err
		}
		p.Weight = &n
	}
	if v, ok := body["sets"]; ok {
		recognized++
		n, ok := v.(float64)
		if !ok {
			return nil, typeError("sets", "number")
		}
		if err := checkSets(n); err != nil {
			return nil, err
		}
		p.Sets = &n
	}
	if v, ok := body["reps"]; ok {
		recognized++
		n, ok := v.(float64)
		if !ok {
			return nil, typeError("reps", "number")
		}
		if err := checkReps(n); err != nil {
			return nil, err
		}
		p.Reps = &n
	}

	if len(body) > recognized {
		return nil, &Error{msgExtraneous}
	}
	return p, nil
}

// WorkoutBody validates a full workout payload (create and full replace).
func WorkoutBody(body map[string]any) (*models.Workout, error) {
	length, hasLength := body["length"]
	heartrate, hasHeartrate := body["heartrate"]
	date, hasDate := body["date"]

	if !hasLength || !hasHeartrate || !hasDate {
		return nil, &Error{msgMissing}
	}
	if len(body) > 3 {
		return nil, &Error{msgExtraneous}
	}

	lengthNum, ok := length.(float64)
	if !ok {
		return nil, typeError("length", "number")
	}
	heartrateNum, ok := heartrate.(float64)
	if !ok {
		return nil, typeError("heartrate", "number")
	}
	dateStr, ok := date.(string)
	if !ok {
		return nil, typeError("date", "string")
	}

	if err := checkLength(lengthNum); err != nil {
		return nil, err
	}
	if err := checkHeartrate(heartrateNum); err != nil {
		return nil, err
	}
	if err := checkDate(dateStr); err != nil {
		return nil, err
	}

	return &models.Workout{Length: lengthNum, Heartrate: heartrateNum, Date: dateStr}, nil
}

// WorkoutPatchBody validates a partial workout payload.
func WorkoutPatchBody(body map[string]any) (*models.WorkoutPatch, error) {
	p := &models.WorkoutPatch{}
	recognized := 0

	if v, ok := body["length"]; ok {
		recognized++
		n, ok := v.(float64)
		if !ok {
			return nil, typeError("length", "number")
		}
		if err := checkLength(n); err != nil {
			return nil, err
		}
		p.Length = &n
	}
	if v, ok := body["heartrate"]; ok {
		recognized++
		n, ok := v.(float64)
		if !ok {
			return nil, typeError("heartrate", "number")
		}
		if err := checkHeartrate(n); err != nil {
			return nil, err
		}
		p.Heartrate = &n
	}
	if v, ok := body["date"]; ok {
		recognized++
		s, ok := v.(string)
		if !ok {
			return nil, typeError("date", "string")
		}
		if err := checkDate(s); err != nil {
			return nil, err
		}
		p.Date = &s
	}

	if len(body) > recognized {
		return nil, &Error{msgExtraneous}
	}
	return p, nil
}

// checkName bounds the length in characters, not bytes, so a multibyte name
// within the length limit is reported for its charset instead.
func checkName(s string) error {
	if n := utf8.RuneCountInString(s); n < 1 || n > 49 {
		return &Error{msgNameLength}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c == ' ':
		default:
			return &Error{msgNameCharset}
		}
	}
	return nil
}

func checkWeight(n float64) error {
	if n < 0 || n > 300 {
		return rangeError("Weight", 0, 300)
	}
	return nil
}

func checkSets(n float64) error {
	if n < 1 || n > 10 {
		return rangeError("Sets", 1, 10)
	}
	return nil
}

func checkReps(n float64) error {
	if n < 1 || n > 100 {
		return rangeError("Reps", 1, 100)
	}
	return nil
}

func checkLength(n float64) error {
	if n < 1 || n > 1440 {
		return rangeError("Length", 1, 1440)
	}
	return nil
}

func checkHeartrate(n float64) error {
	if n < 30 || n > 220 {
		return rangeError("Heartrate", 30, 220)
	}
	return nil
}

// checkDate requires a real calendar date in day/month/year order.
// time.Parse rejects out-of-range components such as 31/02/2024.
func checkDate(s string) error {
	if _, err := time.Parse("02/01/2006", s); err != nil {
		return &Error{msgDate}
	}
	return nil
}
