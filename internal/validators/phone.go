package validators

import "regexp"

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// IsE164 reports whether phone is an international number Twilio accepts
// without reformatting, such as +15551234567.
func IsE164(phone string) bool {
	return e164.MatchString(phone)
}
