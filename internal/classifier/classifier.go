package classifier

import "strings"

const DefaultMessage = "Something went wrong. Please try switching to a different model or contact support."

// Rule maps raw failure text containing Includes to the user facing Error.
// A rule with an empty Includes is the catch-all.
type Rule struct {
	Includes string `json:"includes"`
	Error    string `json:"error"`
}

func (r *Rule) isDefault() bool {
	return len(strings.TrimSpace(r.Includes)) == 0
}

// Classify returns the message of the first rule matching a source. Sources
// are tried in order and every rule is scanned for each source before moving
// on to the next one.
func Classify(sources []string, rules []*Rule) string {
	for _, source := range sources {
		for _, rule := range rules {
			if rule == nil || len(rule.Includes) == 0 {
				continue
			}

			if strings.Contains(source, rule.Includes) {
				return rule.Error
			}
		}
	}

	for _, rule := range rules {
		if rule != nil && rule.isDefault() {
			return rule.Error
		}
	}

	for _, rule := range rules {
		if rule != nil {
			return rule.Error
		}
	}

	return DefaultMessage
}
