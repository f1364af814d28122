package validation

import "strings"

// NormalizeEmail lowercases the address and strips a "+tag" suffix from the
// local part, so alice+spam@Example.com and alice@example.com collide on the
// email unique constraint. Call it only after the address passed the email
// rule; it leaves malformed input untouched.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	if plus := strings.Index(local, "+"); plus > 0 {
		local = local[:plus]
	}
	return local + domain
}
