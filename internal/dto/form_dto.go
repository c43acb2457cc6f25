package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/school-console/internal/models"
)

// StudentForm is the admission payload for a new student.
type StudentForm struct {
	ClassID              string `json:"class_id" form:"class_id" validate:"required,numeric"`
	SectionID            string `json:"section_id" form:"section_id" validate:"omitempty,numeric"`
	RollNumber           string `json:"roll_number" form:"roll_number" validate:"omitempty,max=32"`
	FirstName            string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	DOB                  string `json:"dob" form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender               string `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	WhatsappNumber       string `json:"whatsapp_number" form:"whatsapp_number" validate:"omitempty,phone"`
	CellNumber           string `json:"cell_number" form:"cell_number" validate:"omitempty,phone"`
	EmergencyContact     string `json:"emergency_contact" form:"emergency_contact" validate:"omitempty,phone"`
	Address              string `json:"address" form:"address" validate:"omitempty,max=255"`
	City                 string `json:"city" form:"city"`
	District             string `json:"district" form:"district"`
	Province             string `json:"province" form:"province"`
	PostalCode           string `json:"postal_code" form:"postal_code" validate:"omitempty,max=16"`
	Country              string `json:"country" form:"country"`
	Nationality          string `json:"nationality" form:"nationality"`
	Religion             string `json:"religion" form:"religion"`
	AcademicSession      string `json:"academic_session" form:"academic_session"`
	AdmissionDate        string `json:"admission_date" form:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	PreviousSchool       string `json:"previous_school" form:"previous_school"`
	CNICNumber           string `json:"cnic_number" form:"cnic_number" validate:"omitempty,len=13,numeric"`
	BFormNumber          string `json:"b_form_number" form:"b_form_number" validate:"omitempty,len=13,numeric"`
	GuardianName         string `json:"guardian_name" form:"guardian_name"`
	GuardianRelationship string `json:"guardian_relationship" form:"guardian_relationship"`
	GuardianCNIC         string `json:"guardian_cnic" form:"guardian_cnic" validate:"omitempty,len=13,numeric"`
	GuardianOccupation   string `json:"guardian_occupation" form:"guardian_occupation"`
	Disability           bool   `json:"disability" form:"disability"`
	Status               string `json:"student_status" form:"student_status" validate:"required,student_status"`
}

// DefaultStudentForm seeds a blank admission with an active status.
func DefaultStudentForm() StudentForm {
	return StudentForm{Status: string(models.StudentStatusActive)}
}

// StudentStatusForm changes the enrolment status of a student.
type StudentStatusForm struct {
	Status string `json:"status" form:"status" validate:"required,student_status"`
}

// TeacherForm is the onboarding payload for a teacher.
type TeacherForm struct {
	FirstName             string             `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName              string             `json:"last_name" form:"last_name" validate:"required,max=100"`
	FatherName            string             `json:"father_name" form:"father_name"`
	Email                 string             `json:"email" form:"email" validate:"required,email"`
	Phone                 string             `json:"phone" form:"phone" validate:"omitempty,phone"`
	CNIC                  string             `json:"cnic" form:"cnic" validate:"omitempty,len=13,numeric"`
	AddressLine1          string             `json:"address_line1" form:"address_line1"`
	AddressLine2          string             `json:"address_line2" form:"address_line2"`
	City                  string             `json:"city" form:"city"`
	PostalCode            string             `json:"postal_code" form:"postal_code"`
	Country               string             `json:"country" form:"country"`
	DateOfBirth           string             `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	HireDate              string             `json:"hire_date" form:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	YearsOfExperience     int                `json:"years_of_experience" form:"years_of_experience" validate:"gte=0,lte=70"`
	EmploymentStatus      string             `json:"employment_status" form:"employment_status" validate:"required,employment_status"`
	LinkedInURL           string             `json:"linkedin_url" form:"linkedin_url" validate:"omitempty,url"`
	EmergencyContactName  string             `json:"emergency_contact_name" form:"emergency_contact_name"`
	EmergencyContactPhone string             `json:"emergency_contact_phone" form:"emergency_contact_phone" validate:"omitempty,phone"`
	BloodGroup            string             `json:"blood_group" form:"blood_group"`
	Gender                string             `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	MaritalStatus         string             `json:"marital_status" form:"marital_status"`
	Nationality           string             `json:"nationality" form:"nationality"`
	TeachingLicenseNumber string             `json:"teaching_license_number" form:"teaching_license_number"`
	SubjectsTaught        []string           `json:"subjects_taught" form:"-" validate:"dive,required"`
	Educations            []models.Education `json:"educations" form:"-" validate:"dive"`
	SubjectsText          string             `json:"-" form:"subjects_taught"`
	EducationsText        string             `json:"-" form:"educations"`
}

// DefaultTeacherForm seeds a blank teacher as full time staff.
func DefaultTeacherForm() TeacherForm {
	return TeacherForm{EmploymentStatus: string(models.EmploymentFullTime)}
}

// Normalize folds the textarea inputs of the HTML form into the list fields.
func (f *TeacherForm) Normalize() {
	if strings.TrimSpace(f.SubjectsText) != "" {
		f.SubjectsTaught = ParseList(f.SubjectsText)
	}
	if strings.TrimSpace(f.EducationsText) != "" {
		f.Educations = ParseEducations(f.EducationsText)
	}
}

// ClassForm creates or renames a class and edits its sections.
type ClassForm struct {
	ClassName        string   `json:"class_name" form:"class_name" validate:"required,max=100"`
	Sections         []string `json:"sections" form:"-" validate:"required,min=1,dive,required"`
	SectionsToDelete []string `json:"sections_to_delete,omitempty" form:"-"`
	SectionsText     string   `json:"-" form:"sections"`
}

// FeeTypeForm creates or renames a fee type.
type FeeTypeForm struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

// VoucherForm issues a fee voucher to a student.
type VoucherForm struct {
	StudentID string `json:"student_id" form:"student_id" validate:"required,numeric"`
	DueDate   string `json:"due_date" form:"due_date" validate:"required,datetime=2006-01-02"`
}

// PaymentForm records a payment against the remaining voucher balance.
type PaymentForm struct {
	Amount    float64 `json:"amount" form:"amount" validate:"gt=0"`
	Remaining float64 `json:"-" form:"-"`
}

// FeeItemForm adds a line to a voucher.
type FeeItemForm struct {
	VoucherID string  `json:"voucher_id" form:"voucher_id" validate:"required"`
	FeeTypeID string  `json:"fee_type_id" form:"fee_type_id" validate:"required"`
	Amount    float64 `json:"amount" form:"amount" validate:"gt=0"`
}

// AttendanceEntry is one student's mark inside a bulk submission.
type AttendanceEntry struct {
	StudentID models.ID               `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent"`
}

// AttendanceForm marks a whole class for one date.
type AttendanceForm struct {
	ClassID        models.ID         `json:"class_id" validate:"required"`
	AttendanceDate string            `json:"attendance_date" validate:"required,datetime=2006-01-02"`
	Records        []AttendanceEntry `json:"attendance_records" validate:"required,min=1,dive"`
}

// NewAttendanceForm marks every student present by default.
func NewAttendanceForm(classID models.ID, date string, students []models.Student) AttendanceForm {
	records := make([]AttendanceEntry, 0, len(students))
	for _, student := range students {
		records = append(records, AttendanceEntry{StudentID: student.ID, Status: models.AttendancePresent})
	}
	return AttendanceForm{ClassID: classID, AttendanceDate: date, Records: records}
}

// SetStatus updates the mark of a single student. Unknown students are ignored.
func (f *AttendanceForm) SetStatus(studentID models.ID, status models.AttendanceStatus) {
	for i := range f.Records {
		if f.Records[i].StudentID == studentID {
			f.Records[i].Status = status
			return
		}
	}
}

// AttendanceStatusForm edits a single attendance record.
type AttendanceStatusForm struct {
	Status string `json:"status" form:"status" validate:"required,oneof=present absent"`
}

// ParseList splits comma or newline separated input, dropping blanks.
func ParseList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' })
	items := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ParseEducations reads one "degree | institution | year" entry per line.
func ParseEducations(raw string) []models.Education {
	var educations []models.Education
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		entry := models.Education{Degree: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			entry.Institution = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			entry.Year = strings.TrimSpace(parts[2])
		}
		educations = append(educations, entry)
	}
	return educations
}

// MultipartFields flattens a payload into string form fields. Empty strings and
// false booleans are skipped, nested values are sent as JSON.
func MultipartFields(payload interface{}) (map[string]string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	fields := make(map[string]string, len(decoded))
	for key, value := range decoded {
		switch value := value.(type) {
		case nil:
		case string:
			if value != "" {
				fields[key] = value
			}
		case bool:
			if value {
				fields[key] = "true"
			}
		case float64:
			fields[key] = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			nested, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encode field %s: %w", key, err)
			}
			fields[key] = string(nested)
		}
	}
	return fields, nil
}
