package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/repository"
)

// Page sizes requested from the backend by the paginated screens.
const (
	VoucherPageSize    = 10
	AttendancePageSize = 10
	maxPageWalk        = 50
)

// ErrVoucherNotFound is returned when a voucher cannot be located in the paginated list.
var ErrVoucherNotFound = errors.New("voucher not found")

// Screens builds the per-request controllers of every console screen.
type Screens struct {
	Students   repository.StudentRepository
	Teachers   repository.TeacherRepository
	Classes    repository.ClassRepository
	FeeTypes   repository.FeeTypeRepository
	Vouchers   repository.VoucherRepository
	Attendance repository.AttendanceRepository
	Validation *Validation
	Auditor    Auditor
	Logger     zerolog.Logger
}

func (s *Screens) audit() Auditor {
	if s.Auditor == nil {
		return NoopAuditor()
	}
	return s.Auditor
}

// StudentList lists students, optionally restricted to one class.
func (s *Screens) StudentList(classID models.ID) *ListController[models.Student] {
	opts := ListOptions[models.Student]{
		Resource:           "students",
		ID:                 func(st models.Student) models.ID { return st.ID },
		Display:            func(st models.Student) string { return st.FullName() },
		RefetchAfterDelete: true,
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.Students.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "student", "deleted", id, nil)
			return nil
		},
		UpdateStatus: func(ctx context.Context, id models.ID, raw string) (models.Student, error) {
			status, ok := models.ParseStudentStatus(raw)
			if !ok {
				return models.Student{}, invalidField("status", "status must be a valid student status")
			}
			updated, err := s.Students.UpdateStatus(ctx, id, status)
			if err != nil {
				return models.Student{}, err
			}
			s.audit().Mutated(ctx, "student", "status_changed", id, map[string]interface{}{"status": string(status)})
			return updated, nil
		},
		ApplyStatus: func(st models.Student, raw string) models.Student {
			if status, ok := models.ParseStudentStatus(raw); ok {
				st.Status = status
			}
			return st
		},
	}
	source := ListSourceFunc[models.Student](func(ctx context.Context, page int) (dto.Page[models.Student], error) {
		return s.Students.List(ctx, page, classID)
	})
	return NewListController[models.Student](opts, source, s.Logger)
}

// ClassStudents walks every page of a class roster.
func (s *Screens) ClassStudents(ctx context.Context, classID models.ID) ([]models.Student, error) {
	var students []models.Student
	for page := 1; page <= maxPageWalk; page++ {
		result, err := s.Students.List(ctx, page, classID)
		if err != nil {
			return nil, err
		}
		students = append(students, result.Items...)
		if page >= result.Pagination.PageCount() || len(result.Items) == 0 {
			break
		}
	}
	return students, nil
}

// TeacherList lists teachers. Deleted rows are removed locally.
func (s *Screens) TeacherList() *ListController[models.Teacher] {
	opts := ListOptions[models.Teacher]{
		Resource: "teachers",
		ID:       func(t models.Teacher) models.ID { return t.ID },
		Display:  func(t models.Teacher) string { return t.FullName() },
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.Teachers.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "teacher", "deleted", id, nil)
			return nil
		},
	}
	source := ListSourceFunc[models.Teacher](func(ctx context.Context, _ int) (dto.Page[models.Teacher], error) {
		return s.Teachers.List(ctx)
	})
	return NewListController[models.Teacher](opts, source, s.Logger)
}

// ClassList lists classes. Deletes refetch so section counts stay accurate.
func (s *Screens) ClassList() *ListController[models.Class] {
	opts := ListOptions[models.Class]{
		Resource:           "classes",
		ID:                 func(c models.Class) models.ID { return c.ID },
		Display:            func(c models.Class) string { return c.ClassName },
		RefetchAfterDelete: true,
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.Classes.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "class", "deleted", id, nil)
			return nil
		},
	}
	source := ListSourceFunc[models.Class](func(ctx context.Context, _ int) (dto.Page[models.Class], error) {
		return s.Classes.List(ctx)
	})
	return NewListController[models.Class](opts, source, s.Logger)
}

// FeeTypeList lists fee types. Deleted rows are removed locally.
func (s *Screens) FeeTypeList() *ListController[models.FeeType] {
	opts := ListOptions[models.FeeType]{
		Resource: "fee types",
		ID:       func(f models.FeeType) models.ID { return f.ID },
		Display:  func(f models.FeeType) string { return f.Name },
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.FeeTypes.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "fee_type", "deleted", id, nil)
			return nil
		},
	}
	source := ListSourceFunc[models.FeeType](func(ctx context.Context, _ int) (dto.Page[models.FeeType], error) {
		return s.FeeTypes.List(ctx)
	})
	return NewListController[models.FeeType](opts, source, s.Logger)
}

// VoucherList pages through fee vouchers.
func (s *Screens) VoucherList() *ListController[models.FeeVoucher] {
	opts := ListOptions[models.FeeVoucher]{
		Resource: "fee vouchers",
		ID:       func(v models.FeeVoucher) models.ID { return v.ID },
		Display:  func(v models.FeeVoucher) string { return v.StudentName },
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.Vouchers.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "voucher", "deleted", id, nil)
			return nil
		},
	}
	source := ListSourceFunc[models.FeeVoucher](func(ctx context.Context, page int) (dto.Page[models.FeeVoucher], error) {
		return s.Vouchers.List(ctx, page, VoucherPageSize)
	})
	return NewListController[models.FeeVoucher](opts, source, s.Logger)
}

// FindVoucher locates a voucher by walking the paginated list from page.
func (s *Screens) FindVoucher(ctx context.Context, id models.ID, page int) (models.FeeVoucher, error) {
	if page < 1 {
		page = 1
	}
	for walked := 0; walked < maxPageWalk; walked++ {
		result, err := s.Vouchers.List(ctx, page, VoucherPageSize)
		if err != nil {
			return models.FeeVoucher{}, err
		}
		for _, voucher := range result.Items {
			if voucher.ID == id {
				return voucher, nil
			}
		}
		if page >= result.Pagination.PageCount() || len(result.Items) == 0 {
			break
		}
		page++
	}
	return models.FeeVoucher{}, ErrVoucherNotFound
}

// AttendanceList pages through attendance records.
func (s *Screens) AttendanceList() *ListController[models.AttendanceRecord] {
	opts := ListOptions[models.AttendanceRecord]{
		Resource:           "attendance records",
		ID:                 func(a models.AttendanceRecord) models.ID { return a.ID },
		Display:            func(a models.AttendanceRecord) string { return a.StudentName() },
		RefetchAfterDelete: true,
		Delete: func(ctx context.Context, id models.ID) error {
			if err := s.Attendance.Delete(ctx, id); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "attendance", "deleted", id, nil)
			return nil
		},
		UpdateStatus: func(ctx context.Context, id models.ID, raw string) (models.AttendanceRecord, error) {
			status := models.AttendanceStatus(raw)
			if status != models.AttendancePresent && status != models.AttendanceAbsent {
				return models.AttendanceRecord{}, invalidField("status", "status must be one of [present absent]")
			}
			updated, err := s.Attendance.UpdateStatus(ctx, id, status)
			if err != nil {
				return models.AttendanceRecord{}, err
			}
			s.audit().Mutated(ctx, "attendance", "status_changed", id, map[string]interface{}{"status": raw})
			return updated, nil
		},
		ApplyStatus: func(a models.AttendanceRecord, raw string) models.AttendanceRecord {
			a.Status = models.AttendanceStatus(raw)
			return a
		},
	}
	source := ListSourceFunc[models.AttendanceRecord](func(ctx context.Context, page int) (dto.Page[models.AttendanceRecord], error) {
		return s.Attendance.List(ctx, page, AttendancePageSize)
	})
	return NewListController[models.AttendanceRecord](opts, source, s.Logger)
}

// StudentForm admits a student with optional image and pdf uploads.
func (s *Screens) StudentForm(values dto.StudentForm, files []backend.File, onSuccess func(dto.StudentForm)) *FormController[dto.StudentForm] {
	return NewCreateForm(values, FormConfig[dto.StudentForm]{
		Validation: s.Validation,
		Fallback:   "Failed to add student",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.StudentForm]{
			Create: func(ctx context.Context, v dto.StudentForm) error {
				created, err := s.Students.Create(ctx, v, files)
				if err != nil {
					return err
				}
				s.audit().Mutated(ctx, "student", "created", created.ID, map[string]interface{}{
					"name":     v.FirstName + " " + v.LastName,
					"class_id": v.ClassID,
				})
				return nil
			},
		},
	})
}

// TeacherForm onboards a teacher with optional photo and resume uploads.
func (s *Screens) TeacherForm(values dto.TeacherForm, files []backend.File, onSuccess func(dto.TeacherForm)) *FormController[dto.TeacherForm] {
	return NewCreateForm(values, FormConfig[dto.TeacherForm]{
		Validation: s.Validation,
		Fallback:   "Failed to add teacher",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.TeacherForm]{
			Create: func(ctx context.Context, v dto.TeacherForm) error {
				created, err := s.Teachers.Create(ctx, v, files)
				if err != nil {
					return err
				}
				s.audit().Mutated(ctx, "teacher", "created", created.ID, map[string]interface{}{
					"name":     v.FirstName + " " + v.LastName,
					"subjects": len(v.SubjectsTaught),
				})
				return nil
			},
		},
	})
}

func (s *Screens) classActions() FormActions[dto.ClassForm] {
	return FormActions[dto.ClassForm]{
		Create: func(ctx context.Context, v dto.ClassForm) error {
			created, err := s.Classes.Create(ctx, v)
			if err != nil {
				return err
			}
			s.audit().Mutated(ctx, "class", "created", created.ID, map[string]interface{}{
				"class_name": v.ClassName,
				"sections":   len(v.Sections),
			})
			return nil
		},
		Update: func(ctx context.Context, id models.ID, v dto.ClassForm) error {
			if _, err := s.Classes.Update(ctx, id, v); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "class", "updated", id, map[string]interface{}{
				"class_name":       v.ClassName,
				"sections":         len(v.Sections),
				"sections_deleted": len(v.SectionsToDelete),
			})
			return nil
		},
	}
}

// ClassCreateForm creates a class with its sections.
func (s *Screens) ClassCreateForm(values dto.ClassForm, onSuccess func(dto.ClassForm)) *FormController[dto.ClassForm] {
	return NewCreateForm(values, FormConfig[dto.ClassForm]{
		Actions:    s.classActions(),
		Validation: s.Validation,
		Fallback:   "Failed to save class",
		OnSuccess:  onSuccess,
	})
}

// ClassEditForm renames a class and reconciles its sections.
func (s *Screens) ClassEditForm(id models.ID, values dto.ClassForm, onSuccess func(dto.ClassForm)) *FormController[dto.ClassForm] {
	return NewEditForm(id, values, FormConfig[dto.ClassForm]{
		Actions:    s.classActions(),
		Validation: s.Validation,
		Fallback:   "Failed to save class",
		OnSuccess:  onSuccess,
	})
}

func (s *Screens) feeTypeActions() FormActions[dto.FeeTypeForm] {
	return FormActions[dto.FeeTypeForm]{
		Create: func(ctx context.Context, v dto.FeeTypeForm) error {
			created, err := s.FeeTypes.Create(ctx, v)
			if err != nil {
				return err
			}
			s.audit().Mutated(ctx, "fee_type", "created", created.ID, map[string]interface{}{"name": v.Name})
			return nil
		},
		Update: func(ctx context.Context, id models.ID, v dto.FeeTypeForm) error {
			if _, err := s.FeeTypes.Update(ctx, id, v); err != nil {
				return err
			}
			s.audit().Mutated(ctx, "fee_type", "updated", id, map[string]interface{}{"name": v.Name})
			return nil
		},
	}
}

// FeeTypeCreateForm creates a fee type.
func (s *Screens) FeeTypeCreateForm(values dto.FeeTypeForm, onSuccess func(dto.FeeTypeForm)) *FormController[dto.FeeTypeForm] {
	return NewCreateForm(values, FormConfig[dto.FeeTypeForm]{
		Actions:    s.feeTypeActions(),
		Validation: s.Validation,
		Fallback:   "Failed to save fee type",
		OnSuccess:  onSuccess,
	})
}

// FeeTypeEditForm renames a fee type.
func (s *Screens) FeeTypeEditForm(id models.ID, values dto.FeeTypeForm, onSuccess func(dto.FeeTypeForm)) *FormController[dto.FeeTypeForm] {
	return NewEditForm(id, values, FormConfig[dto.FeeTypeForm]{
		Actions:    s.feeTypeActions(),
		Validation: s.Validation,
		Fallback:   "Failed to save fee type",
		OnSuccess:  onSuccess,
	})
}

// VoucherForm issues a voucher.
func (s *Screens) VoucherForm(values dto.VoucherForm, onSuccess func(dto.VoucherForm)) *FormController[dto.VoucherForm] {
	return NewCreateForm(values, FormConfig[dto.VoucherForm]{
		Validation: s.Validation,
		Fallback:   "Failed to create voucher",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.VoucherForm]{
			Create: func(ctx context.Context, v dto.VoucherForm) error {
				created, err := s.Vouchers.Create(ctx, v)
				if err != nil {
					return err
				}
				s.audit().Mutated(ctx, "voucher", "created", created.ID, map[string]interface{}{
					"student_id": v.StudentID,
					"due_date":   v.DueDate,
				})
				return nil
			},
		},
	})
}

// PaymentForm records a payment of at most the voucher's remaining balance.
func (s *Screens) PaymentForm(voucher models.FeeVoucher, amount float64, onSuccess func(dto.PaymentForm)) *FormController[dto.PaymentForm] {
	values := dto.PaymentForm{Amount: amount, Remaining: voucher.Remaining()}
	return NewEditForm(voucher.ID, values, FormConfig[dto.PaymentForm]{
		Validation: s.Validation,
		Fallback:   "Payment failed",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.PaymentForm]{
			Update: func(ctx context.Context, id models.ID, v dto.PaymentForm) error {
				if _, err := s.Vouchers.RecordPayment(ctx, id, v.Amount); err != nil {
					return err
				}
				s.audit().Mutated(ctx, "voucher", "payment_recorded", id, map[string]interface{}{"amount": v.Amount})
				return nil
			},
		},
	})
}

// FeeItemForm adds a line item to a voucher.
func (s *Screens) FeeItemForm(values dto.FeeItemForm, onSuccess func(dto.FeeItemForm)) *FormController[dto.FeeItemForm] {
	return NewCreateForm(values, FormConfig[dto.FeeItemForm]{
		Validation: s.Validation,
		Fallback:   "Failed to add fee item",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.FeeItemForm]{
			Create: func(ctx context.Context, v dto.FeeItemForm) error {
				if _, err := s.Vouchers.AddItem(ctx, v); err != nil {
					return err
				}
				s.audit().Mutated(ctx, "voucher", "item_added", models.ID(v.VoucherID), map[string]interface{}{
					"fee_type_id": v.FeeTypeID,
					"amount":      v.Amount,
				})
				return nil
			},
		},
	})
}

// AttendanceMarkForm submits a whole class in one bulk call.
func (s *Screens) AttendanceMarkForm(values dto.AttendanceForm, onSuccess func(dto.AttendanceForm)) *FormController[dto.AttendanceForm] {
	return NewCreateForm(values, FormConfig[dto.AttendanceForm]{
		Validation: s.Validation,
		Fallback:   "Failed to mark attendance",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.AttendanceForm]{
			Create: func(ctx context.Context, v dto.AttendanceForm) error {
				if err := s.Attendance.MarkClass(ctx, v); err != nil {
					return err
				}
				present := 0
				for _, record := range v.Records {
					if record.Status == models.AttendancePresent {
						present++
					}
				}
				s.audit().Mutated(ctx, "attendance", "marked", v.ClassID, map[string]interface{}{
					"attendance_date": v.AttendanceDate,
					"students":        len(v.Records),
					"present":         present,
				})
				return nil
			},
		},
	})
}

// AttendanceStatusForm edits one attendance record.
func (s *Screens) AttendanceStatusForm(id models.ID, values dto.AttendanceStatusForm, onSuccess func(dto.AttendanceStatusForm)) *FormController[dto.AttendanceStatusForm] {
	return NewEditForm(id, values, FormConfig[dto.AttendanceStatusForm]{
		Validation: s.Validation,
		Fallback:   "Failed to update attendance",
		OnSuccess:  onSuccess,
		Actions: FormActions[dto.AttendanceStatusForm]{
			Update: func(ctx context.Context, id models.ID, v dto.AttendanceStatusForm) error {
				if _, err := s.Attendance.UpdateStatus(ctx, id, models.AttendanceStatus(v.Status)); err != nil {
					return err
				}
				s.audit().Mutated(ctx, "attendance", "status_changed", id, map[string]interface{}{"status": v.Status})
				return nil
			},
		},
	})
}

func invalidField(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
