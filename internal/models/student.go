package models

import "strings"

// Student is a learner record as returned by the backend.
type Student struct {
	ID                   ID            `json:"id"`
	FirstName            string        `json:"first_name"`
	LastName             string        `json:"last_name"`
	Email                string        `json:"email"`
	Gender               string        `json:"gender"`
	DOB                  string        `json:"dob"`
	ClassID              ID            `json:"class_id"`
	ClassName            string        `json:"class_name"`
	SectionID            ID            `json:"section_id"`
	SectionName          string        `json:"section_name"`
	RollNumber           string        `json:"roll_number"`
	AcademicSession      string        `json:"academic_session"`
	AdmissionDate        string        `json:"admission_date"`
	PreviousSchool       string        `json:"previous_school"`
	Status               StudentStatus `json:"student_status"`
	CNICNumber           string        `json:"cnic_number"`
	BFormNumber          string        `json:"b_form_number"`
	GuardianName         string        `json:"guardian_name"`
	GuardianRelationship string        `json:"guardian_relationship"`
	GuardianCNIC         string        `json:"guardian_cnic"`
	GuardianOccupation   string        `json:"guardian_occupation"`
	WhatsappNumber       string        `json:"whatsapp_number"`
	CellNumber           string        `json:"cell_number"`
	EmergencyContact     string        `json:"emergency_contact"`
	Address              string        `json:"address"`
	City                 string        `json:"city"`
	District             string        `json:"district"`
	Province             string        `json:"province"`
	PostalCode           string        `json:"postal_code"`
	Country              string        `json:"country"`
	Nationality          string        `json:"nationality"`
	Religion             string        `json:"religion"`
	Disability           bool          `json:"disability"`
	ImageURL             string        `json:"image_url"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ClassLabel renders "Class (Section)" with N/A placeholders.
func (s Student) ClassLabel() string {
	return OrNA(s.ClassName) + " (" + OrNA(s.SectionName) + ")"
}
