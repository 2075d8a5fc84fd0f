package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type UnauthenticatedError struct {
	ErrorMessage
}

// InsufficientCreditsError is returned when a billable action is requested
// with a balance below its cost. The billable action must not have run.
type InsufficientCreditsError struct {
	ErrorMessage
	Required int64
	Balance  int64
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MalformedFunctionCallError marks a model response whose tool call could not
// be parsed against the declared schema.
type MalformedFunctionCallError struct {
	ErrorMessage
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnauthenticatedError(message string) *UnauthenticatedError {
	return &UnauthenticatedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInsufficientCreditsError(required, balance int64) *InsufficientCreditsError {
	return &InsufficientCreditsError{
		ErrorMessage: ErrorMessage{Message: "insufficient credits"},
		Required:     required,
		Balance:      balance,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewMalformedFunctionCallError() *MalformedFunctionCallError {
	return &MalformedFunctionCallError{
		ErrorMessage: ErrorMessage{Message: "malformed function call"},
	}
}
