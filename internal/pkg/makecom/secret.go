package makecom

import (
	"crypto/subtle"
	"strings"
)

// SecretHeader carries the shared secret on status and completion callbacks.
const SecretHeader = "X-Webhook-Secret"

// VerifySecret reports whether the callback may be applied. An empty
// configured secret accepts every request.
func VerifySecret(headerValue, secret string) bool {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return true
	}
	got := strings.TrimSpace(headerValue)
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}
