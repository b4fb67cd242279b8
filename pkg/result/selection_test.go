package result_test

import (
	"testing"

	"campus-results/result-queue-server/pkg/result"

	"github.com/stretchr/testify/assert"
)

func validSelection() result.Selection {
	return result.Selection{
		ProgramType: result.ProgramUG,
		Year:        "II",
		Semester:    "I",
		Regulation:  "R24",
		ExamType:    "Regular",
	}
}

func TestSelectionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*result.Selection)
		ok     bool
	}{
		{"valid ug", func(s *result.Selection) {}, true},
		{"valid pg", func(s *result.Selection) {
			s.ProgramType = result.ProgramPG
			s.ProgramName = "MBA"
		}, true},
		{"missing program type", func(s *result.Selection) { s.ProgramType = "" }, false},
		{"unknown program type", func(s *result.Selection) { s.ProgramType = "PHD" }, false},
		{"pg without program name", func(s *result.Selection) { s.ProgramType = result.ProgramPG }, false},
		{"pg unknown program name", func(s *result.Selection) {
			s.ProgramType = result.ProgramPG
			s.ProgramName = "BBA"
		}, false},
		{"unknown year", func(s *result.Selection) { s.Year = "V" }, false},
		{"unknown semester", func(s *result.Selection) { s.Semester = "III" }, false},
		{"malformed regulation", func(s *result.Selection) { s.Regulation = "24R" }, false},
		{"unknown exam type", func(s *result.Selection) { s.ExamType = "Backlog" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := validSelection()
			tt.mutate(&sel)
			err := sel.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, result.ErrInvalidSelection)
			}
		})
	}
}
