package errors

type DecodeError struct {
	message string
}

func NewDecodeError(msg string) *DecodeError {
	return &DecodeError{
		message: msg,
	}
}

func (de *DecodeError) Error() string {
	return de.message
}

func (de *DecodeError) Decode() {}
