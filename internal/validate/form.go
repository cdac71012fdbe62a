package validate

// Form collects the results of several field validations.
type Form struct {
	v      *Validator
	errors FieldErrors
}

// NewForm starts a new validation run.
func (v *Validator) NewForm() *Form {
	return &Form{v: v, errors: FieldErrors{}}
}

// Text validates raw for field and returns the sanitized value.
// Failures are recorded and an empty string is returned.
func (f *Form) Text(field, raw string) string {
	clean, err := f.v.Validate(field, raw)
	if err != nil {
		f.record(field, err)
		return ""
	}

	return clean
}

// Year validates a publication year for field.
func (f *Form) Year(field string, year int) int {
	valid, err := f.v.ValidateYear(field, year)
	if err != nil {
		f.record(field, err)
		return 0
	}

	return valid
}

// Fail records message for field unless the field already failed.
func (f *Form) Fail(field, message string) {
	if _, exists := f.errors[field]; !exists {
		f.errors[field] = message
	}
}

func (f *Form) record(field string, err error) {
	if fe, ok := Fields(err); ok {
		for name, msg := range fe {
			f.Fail(name, msg)
		}

		return
	}

	f.Fail(field, err.Error())
}

// Err returns the collected FieldErrors or nil if every field passed.
func (f *Form) Err() error {
	if len(f.errors) == 0 {
		return nil
	}

	return f.errors
}
