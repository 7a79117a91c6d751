package bridge

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	goopenai "github.com/sashabaranov/go-openai"
)

func JSON(c *gin.Context, code int, message string) {
	c.JSON(code, &goopenai.ErrorResponse{
		Error: &goopenai.APIError{
			Message: message,
			Code:    strconv.Itoa(code),
		},
	})
}

type notAuthenticatedError interface {
	NotAuthenticated()
}

type configurationMissingError interface {
	ConfigurationMissing()
}

type decodeError interface {
	Decode()
}

type configFetchError interface {
	ConfigFetchFailed()
}

type transportError interface {
	Transport()
}

type statusError interface {
	StatusCode() int
}

// errorStatus maps a gateway error to the status code returned to the ui.
func errorStatus(err error) int {
	var nae notAuthenticatedError
	if errors.As(err, &nae) {
		return http.StatusUnauthorized
	}

	var cme configurationMissingError
	if errors.As(err, &cme) {
		return http.StatusPreconditionFailed
	}

	var de decodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest
	}

	var cfe configFetchError
	if errors.As(err, &cfe) {
		return http.StatusBadGateway
	}

	var te transportError
	if errors.As(err, &te) {
		return http.StatusBadGateway
	}

	var se statusError
	if errors.As(err, &se) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
