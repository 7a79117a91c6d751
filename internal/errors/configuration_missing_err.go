package errors

type ConfigurationMissingError struct {
	message string
}

func NewConfigurationMissingError(msg string) *ConfigurationMissingError {
	return &ConfigurationMissingError{
		message: msg,
	}
}

func (cme *ConfigurationMissingError) Error() string {
	return cme.message
}

func (cme *ConfigurationMissingError) ConfigurationMissing() {}
