package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

func validStudent() dto.StudentForm {
	form := dto.DefaultStudentForm()
	form.ClassID = "1"
	form.FirstName = "Ada"
	form.LastName = "Lovelace"
	form.Email = "ada@example.com"
	return form
}

func TestValidationAcceptsCompleteStudent(t *testing.T) {
	form := validStudent()
	form.CellNumber = "+923001234567"
	form.CNICNumber = "3520212345671"
	form.DOB = "2012-04-01"
	require.NoError(t, NewValidation().Struct(form))
}

func TestValidationReportsJSONFieldNames(t *testing.T) {
	validation := NewValidation()
	cases := map[string]func(*dto.StudentForm){
		"cell_number":    func(f *dto.StudentForm) { f.CellNumber = "0300-123" },
		"cnic_number":    func(f *dto.StudentForm) { f.CNICNumber = "12345" },
		"guardian_cnic":  func(f *dto.StudentForm) { f.GuardianCNIC = "abcdefghijklm" },
		"dob":            func(f *dto.StudentForm) { f.DOB = "01/04/2012" },
		"email":          func(f *dto.StudentForm) { f.Email = "not-an-email" },
		"student_status": func(f *dto.StudentForm) { f.Status = "archived" },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			form := validStudent()
			mutate(&form)
			err := validation.Struct(form)
			require.Error(t, err)
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			require.Contains(t, verr.FieldMap(), field)
			require.NotEmpty(t, verr.UserMessage())
		})
	}
}

func TestValidationCustomMessages(t *testing.T) {
	form := validStudent()
	form.WhatsappNumber = "0300-123"
	err := NewValidation().Struct(form)
	require.EqualError(t, err, "validation failed: whatsapp_number must be a valid phone number")
}

func TestValidationEveryStudentStatusIsAccepted(t *testing.T) {
	validation := NewValidation()
	for _, status := range models.StudentStatuses {
		require.NoError(t, validation.Struct(dto.StudentStatusForm{Status: string(status)}))
	}
}

func TestValidationTeacherLists(t *testing.T) {
	form := dto.DefaultTeacherForm()
	form.FirstName = "Grace"
	form.LastName = "Hopper"
	form.Email = "grace@example.com"
	form.SubjectsTaught = []string{"Math", ""}

	err := NewValidation().Struct(form)
	require.Error(t, err)
	require.Contains(t, err.(*ValidationError).FieldMap(), "subjects_taught[1]")

	form.SubjectsTaught = []string{"Math"}
	form.EmploymentStatus = "Intern"
	err = NewValidation().Struct(form)
	require.Contains(t, err.(*ValidationError).FieldMap(), "employment_status")
}

func TestValidationAttendanceRecords(t *testing.T) {
	form := dto.AttendanceForm{ClassID: "2", AttendanceDate: "2024-05-01"}
	err := NewValidation().Struct(form)
	require.Error(t, err)
	require.Contains(t, err.(*ValidationError).FieldMap(), "attendance_records")

	form.Records = []dto.AttendanceEntry{{StudentID: "1", Status: "late"}}
	err = NewValidation().Struct(form)
	require.Contains(t, err.(*ValidationError).FieldMap(), "attendance_records[0].status")
}

func TestValidationClassSections(t *testing.T) {
	err := NewValidation().Struct(dto.ClassForm{ClassName: "Grade 1"})
	require.Error(t, err)
	require.Contains(t, err.(*ValidationError).FieldMap(), "sections")
	require.NoError(t, NewValidation().Struct(dto.ClassForm{ClassName: "Grade 1", Sections: []string{"A"}}))
}
