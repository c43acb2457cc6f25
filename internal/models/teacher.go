package models

import "strings"

// Education is one entry of a teacher's academic history.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Teacher is a staff record as returned by the backend.
type Teacher struct {
	ID                    ID               `json:"teacher_id"`
	FirstName             string           `json:"first_name"`
	LastName              string           `json:"last_name"`
	FatherName            string           `json:"father_name"`
	Email                 string           `json:"email"`
	Phone                 string           `json:"phone"`
	CNIC                  string           `json:"cnic"`
	AddressLine1          string           `json:"address_line1"`
	AddressLine2          string           `json:"address_line2"`
	City                  string           `json:"city"`
	PostalCode            string           `json:"postal_code"`
	Country               string           `json:"country"`
	DateOfBirth           string           `json:"date_of_birth"`
	HireDate              string           `json:"hire_date"`
	YearsOfExperience     int              `json:"years_of_experience"`
	EmploymentStatus      EmploymentStatus `json:"employment_status"`
	LinkedInURL           string           `json:"linkedin_url"`
	ResumeURL             string           `json:"resume_url"`
	PhotoURL              string           `json:"photo_url"`
	EmergencyContactName  string           `json:"emergency_contact_name"`
	EmergencyContactPhone string           `json:"emergency_contact_phone"`
	BloodGroup            string           `json:"blood_group"`
	Gender                string           `json:"gender"`
	MaritalStatus         string           `json:"marital_status"`
	Nationality           string           `json:"nationality"`
	TeachingLicenseNumber string           `json:"teaching_license_number"`
	SubjectsTaught        []string         `json:"subjects_taught"`
	Educations            []Education      `json:"educations"`
	CreatedAt             string           `json:"created_at"`
}

// FullName joins first and last name.
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Subjects renders the taught subjects as a comma separated list.
func (t Teacher) Subjects() string {
	return strings.Join(t.SubjectsTaught, ", ")
}
