// pkg/funcs/signature.go
package funcs

import "strings"

// SignatureType classifies a function's invocation contract.
type SignatureType string

const (
	SignatureHTTP       SignatureType = "http"
	SignatureEvent      SignatureType = "event"
	SignatureCloudEvent SignatureType = "cloudevent"
)

// ParseSignature normalizes a raw signature string. "event" and
// "cloudevent" both select the CloudEvent contract; ok is false for
// anything else (including empty).
func ParseSignature(s string) (SignatureType, bool) {
	switch SignatureType(strings.ToLower(strings.TrimSpace(s))) {
	case SignatureHTTP:
		return SignatureHTTP, true
	case SignatureEvent, SignatureCloudEvent:
		return SignatureCloudEvent, true
	}
	return "", false
}
