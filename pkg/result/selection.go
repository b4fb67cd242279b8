package result

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidSelection = errors.New("invalid exam selection")

type ProgramType string

const (
	ProgramUG ProgramType = "UG"
	ProgramPG ProgramType = "PG"
)

var (
	years     = map[string]bool{"I": true, "II": true, "III": true, "IV": true}
	semesters = map[string]bool{"I": true, "II": true}
	examTypes = map[string]bool{"Regular": true, "Supplementary": true}
	pgNames   = map[string]bool{"MBA": true, "MCA": true, "M.Tech": true}

	regulationPattern = regexp.MustCompile(`^R\d{2}$`)
)

// Selection identifies one published result sheet. Every field is a
// closed enum and the whole struct is validated at the boundary, an
// unvalidated bag of fields never travels through the core.
type Selection struct {
	ProgramType ProgramType `json:"programType"`
	Year        string      `json:"year"`
	Semester    string      `json:"semester"`
	Regulation  string      `json:"regulation"`
	ExamType    string      `json:"examType"`

	// Required for PG, ignored for UG (the UG listing is B.Tech only).
	ProgramName string `json:"programName,omitempty"`
}

func (s *Selection) Validate() error {
	switch s.ProgramType {
	case ProgramUG:
	case ProgramPG:
		if !pgNames[s.ProgramName] {
			return fmt.Errorf("%w: unknown program name %q", ErrInvalidSelection, s.ProgramName)
		}
	default:
		return fmt.Errorf("%w: program type must be UG or PG", ErrInvalidSelection)
	}

	if !years[s.Year] {
		return fmt.Errorf("%w: unknown year %q", ErrInvalidSelection, s.Year)
	}
	if !semesters[s.Semester] {
		return fmt.Errorf("%w: unknown semester %q", ErrInvalidSelection, s.Semester)
	}
	if !regulationPattern.MatchString(s.Regulation) {
		return fmt.Errorf("%w: malformed regulation %q", ErrInvalidSelection, s.Regulation)
	}
	if !examTypes[s.ExamType] {
		return fmt.Errorf("%w: unknown exam type %q", ErrInvalidSelection, s.ExamType)
	}
	return nil
}
