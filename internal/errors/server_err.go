package errors

type ServerError struct {
	message string
	status  int
}

func NewServerError(msg string, status int) *ServerError {
	return &ServerError{
		message: msg,
		status:  status,
	}
}

func (se *ServerError) Error() string {
	return se.message
}

func (se *ServerError) StatusCode() int {
	return se.status
}
