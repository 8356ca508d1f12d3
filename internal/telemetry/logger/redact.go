package logger

import (
	"log/slog"
	"strings"
)

// Attribute keys whose values are never logged.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"credential",
	"auth",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive hides string attributes whose key suggests a secret.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// configSecrets are CONFIG SET parameters holding passwords.
var configSecrets = map[string]bool{
	"requirepass":              true,
	"masterauth":               true,
	"tls-key-file-pass":        true,
	"tls-client-key-file-pass": true,
}

// RedactArgs returns a copy of a command line that is safe to log:
// passwords carried by AUTH, HELLO, CONFIG SET, MIGRATE and ACL SETUSER
// are replaced. The input is not modified.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	if len(out) == 0 {
		return out
	}

	switch strings.ToUpper(out[0]) {
	case "AUTH":
		maskFrom(out, 1, len(out))
	case "HELLO":
		for i := 1; i < len(out); i++ {
			if strings.EqualFold(out[i], "AUTH") {
				// HELLO ... AUTH username password
				maskFrom(out, i+2, i+3)
				i += 2
			}
		}
	case "CONFIG":
		if len(out) > 1 && strings.EqualFold(out[1], "SET") {
			for i := 2; i+1 < len(out); i += 2 {
				if configSecrets[strings.ToLower(out[i])] {
					out[i+1] = redactedValue
				}
			}
		}
	case "MIGRATE":
		for i := 1; i < len(out); i++ {
			switch strings.ToUpper(out[i]) {
			case "AUTH":
				maskFrom(out, i+1, i+2)
				i++
			case "AUTH2":
				// AUTH2 username password
				maskFrom(out, i+2, i+3)
				i += 2
			}
		}
	case "ACL":
		if len(out) > 1 && strings.EqualFold(out[1], "SETUSER") {
			for i := 3; i < len(out); i++ {
				if strings.HasPrefix(out[i], ">") || strings.HasPrefix(out[i], "#") ||
					strings.HasPrefix(out[i], "<") || strings.HasPrefix(out[i], "!") {
					out[i] = out[i][:1] + redactedValue
				}
			}
		}
	}
	return out
}

func maskFrom(args []string, from, to int) {
	for i := from; i < to && i < len(args); i++ {
		args[i] = redactedValue
	}
}
