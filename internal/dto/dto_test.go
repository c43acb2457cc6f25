package dto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/models"
)

func TestPaginationPageCount(t *testing.T) {
	require.Equal(t, 3, Pagination{Total: 25, Limit: 10}.PageCount())
	require.Equal(t, 4, Pagination{TotalPages: 4}.PageCount())
	require.Equal(t, 1, Pagination{}.PageCount())
}

func TestSectionDraftQueuesStoredSectionsForDeletion(t *testing.T) {
	draft := NewSectionDraft([]string{"A", "B"})
	draft.Add("C")
	draft.Remove(0)
	draft.Remove(1)

	form := ClassForm{ClassName: "Grade 5"}
	draft.Apply(&form)
	require.Equal(t, []string{"B"}, form.Sections)
	require.Equal(t, []string{"A"}, form.SectionsToDelete)
}

func TestSectionDraftReplace(t *testing.T) {
	draft := NewSectionDraft([]string{"A", "B"})
	draft.Replace([]string{"B", "D", " "})

	require.Equal(t, []string{"B", "D"}, draft.Sections)
	require.Equal(t, []string{"A"}, draft.ToDelete)
}

func TestMultipartFieldsSkipsBlankValues(t *testing.T) {
	fields, err := MultipartFields(StudentForm{
		ClassID:   "3",
		FirstName: "Ada",
		Email:     "",
		Status:    "active",
	})
	require.NoError(t, err)
	require.Equal(t, "3", fields["class_id"])
	require.Equal(t, "Ada", fields["first_name"])
	require.NotContains(t, fields, "email")
	require.NotContains(t, fields, "disability")
}

func TestMultipartFieldsEncodesListsAsJSON(t *testing.T) {
	form := TeacherForm{SubjectsText: "Math, Physics", EducationsText: "BSc | UET | 2015"}
	form.Normalize()

	fields, err := MultipartFields(form)
	require.NoError(t, err)
	require.JSONEq(t, `["Math","Physics"]`, fields["subjects_taught"])
	require.JSONEq(t, `[{"degree":"BSc","institution":"UET","year":"2015"}]`, fields["educations"])
}

func TestNewAttendanceFormDefaultsToPresent(t *testing.T) {
	form := NewAttendanceForm("4", "2024-05-01", []models.Student{{ID: "1"}, {ID: "2"}})
	form.SetStatus("2", models.AttendanceAbsent)

	require.Len(t, form.Records, 2)
	require.Equal(t, models.AttendancePresent, form.Records[0].Status)
	require.Equal(t, models.AttendanceAbsent, form.Records[1].Status)
}
