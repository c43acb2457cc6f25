package models

import "strings"

// StudentStatus enumerates the enrolment states of a student.
type StudentStatus string

// Student statuses. This is the single list used by validation and rendering.
const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusLeft      StudentStatus = "left"
	StudentStatusExpelled  StudentStatus = "expelled"
)

// StudentStatuses lists every valid student status in display order.
var StudentStatuses = []StudentStatus{
	StudentStatusActive,
	StudentStatusInactive,
	StudentStatusSuspended,
	StudentStatusGraduated,
	StudentStatusLeft,
	StudentStatusExpelled,
}

// ParseStudentStatus normalises a raw status and reports whether it is known.
func ParseStudentStatus(raw string) (StudentStatus, bool) {
	candidate := StudentStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range StudentStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// Tone maps a status onto the badge colour used by the list screens.
func (s StudentStatus) Tone() string {
	switch StudentStatus(strings.ToLower(string(s))) {
	case StudentStatusActive:
		return "success"
	case StudentStatusInactive, StudentStatusExpelled:
		return "danger"
	default:
		return "warning"
	}
}

// EmploymentStatus enumerates teacher employment states.
type EmploymentStatus string

// Employment statuses offered by the teacher form.
const (
	EmploymentFullTime EmploymentStatus = "Full-Time"
	EmploymentPartTime EmploymentStatus = "Part-Time"
	EmploymentContract EmploymentStatus = "Contract"
	EmploymentRetired  EmploymentStatus = "Retired"
	EmploymentResigned EmploymentStatus = "Resigned"
)

// EmploymentStatuses lists every valid employment status.
var EmploymentStatuses = []EmploymentStatus{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentContract,
	EmploymentRetired,
	EmploymentResigned,
}

// VoucherStatus is derived by the backend from total and paid amounts.
type VoucherStatus string

// Voucher statuses.
const (
	VoucherStatusPaid    VoucherStatus = "paid"
	VoucherStatusPartial VoucherStatus = "partial"
	VoucherStatusUnpaid  VoucherStatus = "unpaid"
)

// DeriveVoucherStatus mirrors the backend rule for vouchers that arrive without a status.
func DeriveVoucherStatus(total, paid float64) VoucherStatus {
	switch {
	case total > 0 && paid >= total:
		return VoucherStatusPaid
	case paid > 0:
		return VoucherStatusPartial
	default:
		return VoucherStatusUnpaid
	}
}

// Tone maps a voucher status onto a badge colour.
func (s VoucherStatus) Tone() string {
	switch s {
	case VoucherStatusPaid:
		return "success"
	case VoucherStatusPartial:
		return "warning"
	default:
		return "danger"
	}
}

// AttendanceStatus is either present or absent.
type AttendanceStatus string

// Attendance statuses.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceStatuses lists valid attendance statuses.
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent}

// Tone maps an attendance status onto a badge colour.
func (s AttendanceStatus) Tone() string {
	if s == AttendancePresent {
		return "success"
	}
	return "danger"
}
