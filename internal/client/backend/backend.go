package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrNotConfigured = errors.New("backend endpoint or access key is not configured")

// Client talks to the pluely backend. Every request carries the api access
// key as a bearer token.
type Client struct {
	endpoint   string
	accessKey  string
	appVersion string
	httpClient *http.Client
}

type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (r *Response) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewClient(endpoint, accessKey, appVersion string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		accessKey:  accessKey,
		appVersion: appVersion,
		httpClient: httpClient,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) AccessKey() string {
	return c.accessKey
}

func (c *Client) AppVersion() string {
	return c.appVersion
}

func (c *Client) Configured() bool {
	return len(c.endpoint) != 0 && len(c.accessKey) != 0
}

// Do sends a request to the backend and reads the whole response body. A
// non-nil body is encoded as JSON. Errors are only returned when no response
// was received.
func (c *Client) Do(ctx context.Context, method, path string, header map[string]string, body any) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error when marshalling request body: %w", err)
		}

		reader = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessKey)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       bs,
	}, nil
}

// StripUrl renders a transport error without the request url so that
// endpoints and query strings never reach the user.
func StripUrl(err error) string {
	if err == nil {
		return ""
	}

	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}

	msg := err.Error()
	if idx := strings.Index(msg, " for url ("); idx != -1 {
		return msg[:idx]
	}

	return msg
}

// ErrorDetail extracts a human readable detail from a failed response body.
// The "error" string field wins unless messageFirst is set, then the
// "message" string field, then the raw body.
func ErrorDetail(body []byte, messageFirst bool) string {
	fields := []string{"error", "message"}
	if messageFirst {
		fields = []string{"message", "error"}
	}

	if gjson.ValidBytes(body) {
		for _, field := range fields {
			result := gjson.GetBytes(body, field)
			if result.Type == gjson.String {
				return result.String()
			}
		}
	}

	return strings.TrimSpace(string(body))
}

func ServerErrorMessage(status int, detail string) string {
	return fmt.Sprintf("Server error (%d): %s", status, detail)
}
