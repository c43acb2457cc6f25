package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/models"
)

var (
	// ErrSubmitInProgress is returned when a form is submitted while a previous submit is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrUnsupportedMode is returned when a form has no action for its mode.
	ErrUnsupportedMode = errors.New("form mode not supported")
)

// FormMode distinguishes create from edit forms.
type FormMode string

// Form modes.
const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormActions are the backend calls behind a form.
type FormActions[P any] struct {
	Create func(ctx context.Context, values P) error
	Update func(ctx context.Context, id models.ID, values P) error
}

// FormConfig wires a form controller.
type FormConfig[P any] struct {
	Actions    FormActions[P]
	Validation *Validation
	// Fallback is shown when a failure carries no server message.
	Fallback  string
	OnSuccess func(values P)
}

// FormController validates and submits one typed payload.
type FormController[P any] struct {
	mu          sync.Mutex
	mode        FormMode
	id          models.ID
	values      P
	message     string
	fieldErrors map[string]string
	submitting  atomic.Bool
	cfg         FormConfig[P]
}

// NewCreateForm seeds a create form from defaults.
func NewCreateForm[P any](defaults P, cfg FormConfig[P]) *FormController[P] {
	return &FormController[P]{mode: FormModeCreate, values: defaults, cfg: cfg}
}

// NewEditForm seeds an edit form from an existing entity.
func NewEditForm[P any](id models.ID, values P, cfg FormConfig[P]) *FormController[P] {
	return &FormController[P]{mode: FormModeEdit, id: id, values: values, cfg: cfg}
}

// Mode reports whether the form creates or edits.
func (f *FormController[P]) Mode() FormMode { return f.mode }

// ID is the edited entity, empty for create forms.
func (f *FormController[P]) ID() models.ID { return f.id }

// Values returns the current form values.
func (f *FormController[P]) Values() P {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SetValues replaces the form values.
func (f *FormController[P]) SetValues(values P) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
}

// Update edits the values in place.
func (f *FormController[P]) Update(edit func(values *P)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	edit(&f.values)
}

// Error is the message shown above the form, empty when the last submit succeeded.
func (f *FormController[P]) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// FieldErrors maps field names to validation messages.
func (f *FormController[P]) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrors
}

// Submitting reports whether a submit is in flight.
func (f *FormController[P]) Submitting() bool {
	return f.submitting.Load()
}

// Submit sanitises, validates and sends the values. Values stay populated on failure.
func (f *FormController[P]) Submit(ctx context.Context) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer f.submitting.Store(false)

	values := f.Values()
	Sanitize(&values)

	if f.cfg.Validation != nil {
		if err := f.cfg.Validation.Struct(values); err != nil {
			f.fail(values, err)
			return err
		}
	}

	var err error
	switch {
	case f.mode == FormModeCreate && f.cfg.Actions.Create != nil:
		err = f.cfg.Actions.Create(ctx, values)
	case f.mode == FormModeEdit && f.cfg.Actions.Update != nil:
		err = f.cfg.Actions.Update(ctx, f.id, values)
	default:
		err = ErrUnsupportedMode
	}
	if err != nil {
		f.fail(values, err)
		return err
	}

	f.mu.Lock()
	f.values = values
	f.message = ""
	f.fieldErrors = nil
	f.mu.Unlock()

	if f.cfg.OnSuccess != nil {
		f.cfg.OnSuccess(values)
	}
	return nil
}

func (f *FormController[P]) fail(values P, err error) {
	fallback := f.cfg.Fallback
	if fallback == "" {
		fallback = "Something went wrong. Please try again."
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
	f.message = backend.ErrorMessage(err, fallback)
	f.fieldErrors = nil

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		f.fieldErrors = validationErr.FieldMap()
	}
}
