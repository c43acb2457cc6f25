package models

import "strings"

// AttendanceRecord is a single present/absent mark for a student on a date.
type AttendanceRecord struct {
	ID             ID               `json:"id"`
	StudentID      ID               `json:"student_id"`
	ClassID        ID               `json:"class_id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	ClassName      string           `json:"class_name"`
	AttendanceDate string           `json:"attendance_date"`
	Status         AttendanceStatus `json:"status"`
}

// StudentName joins the denormalised student names.
func (a AttendanceRecord) StudentName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
