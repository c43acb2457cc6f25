package dto

import (
	"time"

	"github.com/noah-isme/school-console/internal/models"
)

// ListView is the view model of every list screen.
type ListView[T any] struct {
	Title      string `json:"title"`
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
	Items      []T    `json:"items"`
	Count      int    `json:"count"`
	Empty      string `json:"empty_message,omitempty"`
	Search     string `json:"search,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	CanPrev    bool   `json:"can_prev"`
	CanNext    bool   `json:"can_next"`
	Flash      string `json:"flash,omitempty"`
}

// FormView is the view model of every create and edit screen.
type FormView[P any] struct {
	Title       string            `json:"title"`
	Action      string            `json:"action"`
	Mode        string            `json:"mode"`
	Values      P                 `json:"values"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Options     FormOptions       `json:"options"`
}

// FormOptions carries the lookups a form needs to render its selects.
type FormOptions struct {
	Classes  []models.Class     `json:"classes,omitempty"`
	FeeTypes []models.FeeType   `json:"fee_types,omitempty"`
	Students []models.Student   `json:"students,omitempty"`
	Voucher  *models.FeeVoucher `json:"voucher,omitempty"`
	Statuses []string           `json:"statuses,omitempty"`
}

// DetailView renders a single record.
type DetailView[T any] struct {
	Title string `json:"title"`
	Item  T      `json:"item"`
	Error string `json:"error,omitempty"`
}

// ConfirmView asks the user to confirm a destructive action.
type ConfirmView struct {
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Action    string            `json:"action"`
	CancelURL string            `json:"cancel_url"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// DashboardStats are the headline numbers shown on the dashboard.
type DashboardStats struct {
	TotalStudents      int64     `json:"total_students"`
	ActiveClasses      int       `json:"active_classes"`
	AttendanceToday    float64   `json:"attendance_today"`
	AttendanceRecorded int       `json:"attendance_recorded"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// DashboardView combines statistics with recent activity.
type DashboardView struct {
	Stats  DashboardStats     `json:"stats"`
	Recent []ActivityResponse `json:"recent_activity"`
	Error  string             `json:"error,omitempty"`
}

// ErrorText implements the error carrier used by the JSON renderer.
func (v ListView[T]) ErrorText() string { return v.Error }

// ErrorText implements the error carrier used by the JSON renderer.
func (v FormView[P]) ErrorText() string { return v.Error }

// ErrorText implements the error carrier used by the JSON renderer.
func (v DetailView[T]) ErrorText() string { return v.Error }

// ErrorText implements the error carrier used by the JSON renderer.
func (v DashboardView) ErrorText() string { return v.Error }
