package errors

// TransportError carries a message that is safe to show to the user. The raw
// cause is never part of it.
type TransportError struct {
	message string
}

func NewTransportError(msg string) *TransportError {
	return &TransportError{
		message: msg,
	}
}

func (te *TransportError) Error() string {
	return te.message
}

func (te *TransportError) Transport() {}
