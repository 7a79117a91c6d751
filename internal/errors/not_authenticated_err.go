package errors

type NotAuthenticatedError struct {
	message string
}

func NewNotAuthenticatedError(msg string) *NotAuthenticatedError {
	return &NotAuthenticatedError{
		message: msg,
	}
}

func (nae *NotAuthenticatedError) Error() string {
	return nae.message
}

func (nae *NotAuthenticatedError) NotAuthenticated() {}
