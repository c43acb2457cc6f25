package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

func TestSanitizeStripsMarkupEverywhere(t *testing.T) {
	form := dto.TeacherForm{
		FirstName:      "<script>alert(1)</script>Grace",
		LastName:       " O'Brien ",
		SubjectsTaught: []string{"<i>Math</i>"},
		Educations:     []models.Education{{Degree: "<b>BSc</b>", Institution: "A & M"}},
	}
	Sanitize(&form)

	require.Equal(t, "Grace", form.FirstName)
	require.Equal(t, "O'Brien", form.LastName)
	require.Equal(t, []string{"Math"}, form.SubjectsTaught)
	require.Equal(t, "BSc", form.Educations[0].Degree)
	require.Equal(t, "A & M", form.Educations[0].Institution)
}

func TestSanitizeIgnoresNonPointers(t *testing.T) {
	form := dto.FeeTypeForm{Name: "<b>x</b>"}
	Sanitize(form)
	require.Equal(t, "<b>x</b>", form.Name)
}
