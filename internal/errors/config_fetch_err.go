package errors

// ConfigFetchError is returned when the routing configuration could not be
// fetched. A status of 0 means the request never got a response.
type ConfigFetchError struct {
	message string
	status  int
}

func NewConfigFetchError(msg string, status int) *ConfigFetchError {
	return &ConfigFetchError{
		message: msg,
		status:  status,
	}
}

func (cfe *ConfigFetchError) Error() string {
	return cfe.message
}

func (cfe *ConfigFetchError) StatusCode() int {
	return cfe.status
}

func (cfe *ConfigFetchError) ConfigFetchFailed() {}
