package route

import (
	"encoding/json"
	"strings"

	"github.com/pluely/gateway/internal/classifier"
	"github.com/tidwall/gjson"
)

const (
	TierPrimary  = "primary"
	TierFallback = "fallback"
)

// Config is the per call routing configuration returned by the backend. It is
// resolved fresh for every operation and never cached.
type Config struct {
	Url           string
	UserToken     string
	Model         string
	ExtraBody     ExtraBody
	CustomerId    *int64
	CustomerEmail *string
	CustomerName  *string
	LicenseKey    string
	InstanceId    string
	Audio         *AudioConfig
	ErrorRules    []*classifier.Rule
}

type BodyField struct {
	Key   string
	Value json.RawMessage
}

// ExtraBody holds provider parameters in the key order the backend sent them.
type ExtraBody []BodyField

func (eb ExtraBody) Keys() []string {
	keys := make([]string, 0, len(eb))
	for _, f := range eb {
		keys = append(keys, f.Key)
	}

	return keys
}

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type AudioConfig struct {
	Url               string    `json:"url"`
	FallbackUrl       string    `json:"fallback_url"`
	Model             string    `json:"model"`
	FallbackModel     string    `json:"fallback_model"`
	UserToken         string    `json:"user_token"`
	FallbackUserToken string    `json:"fallback_user_token"`
	Headers           []*Header `json:"headers"`
}

// Tier is one transcription provider endpoint.
type Tier struct {
	Name      string
	Url       string
	UserToken string
	Model     string
}

func (ac *AudioConfig) HasFallback() bool {
	return len(strings.TrimSpace(ac.FallbackUrl)) != 0 && len(strings.TrimSpace(ac.FallbackUserToken)) != 0
}

// Tiers lists the primary tier and, when both its url and token are present,
// the fallback tier. The fallback uses the primary model unless its own is set.
func (ac *AudioConfig) Tiers() []*Tier {
	tiers := []*Tier{{
		Name:      TierPrimary,
		Url:       ac.Url,
		UserToken: ac.UserToken,
		Model:     ac.Model,
	}}

	if !ac.HasFallback() {
		return tiers
	}

	model := ac.Model
	if len(strings.TrimSpace(ac.FallbackModel)) != 0 {
		model = ac.FallbackModel
	}

	return append(tiers, &Tier{
		Name:      TierFallback,
		Url:       ac.FallbackUrl,
		UserToken: ac.FallbackUserToken,
		Model:     model,
	})
}

type responseConfig struct {
	Url           string             `json:"url"`
	UserToken     string             `json:"user_token"`
	Model         string             `json:"model"`
	Body          json.RawMessage    `json:"body"`
	CustomerId    *int64             `json:"customer_id"`
	CustomerEmail *string            `json:"customer_email"`
	CustomerName  *string            `json:"customer_name"`
	LicenseKey    string             `json:"license_key"`
	InstanceId    string             `json:"instance_id"`
	UserAudio     *AudioConfig       `json:"user_audio"`
	Errors        []*classifier.Rule `json:"errors"`
}

func (rc *responseConfig) toConfig() *Config {
	return &Config{
		Url:           rc.Url,
		UserToken:     rc.UserToken,
		Model:         rc.Model,
		ExtraBody:     parseBodyField(rc.Body),
		CustomerId:    rc.CustomerId,
		CustomerEmail: rc.CustomerEmail,
		CustomerName:  rc.CustomerName,
		LicenseKey:    rc.LicenseKey,
		InstanceId:    rc.InstanceId,
		Audio:         rc.UserAudio,
		ErrorRules:    rc.Errors,
	}
}

// parseBodyField accepts the body either as a JSON encoded string or as an
// inline object.
func parseBodyField(raw json.RawMessage) ExtraBody {
	result := gjson.ParseBytes(raw)
	if result.Type == gjson.String {
		return ParseExtraBody(result.String())
	}

	return ParseExtraBody(string(raw))
}

// ParseExtraBody decodes a JSON object preserving key order. Anything that is
// not a JSON object yields an empty body.
func ParseExtraBody(raw string) ExtraBody {
	raw = strings.TrimSpace(raw)
	if len(raw) == 0 || !gjson.Valid(raw) {
		return ExtraBody{}
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return ExtraBody{}
	}

	eb := ExtraBody{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		eb = append(eb, BodyField{
			Key:   key.String(),
			Value: json.RawMessage(value.Raw),
		})

		return true
	})

	return eb
}
