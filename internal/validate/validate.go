// Package validate implements the input validation rules from
// spec.md 6, grounded on the teacher's internal/utils.ValidatePseudo
// (internal/utils/validator.go) generalized from a French-language
// signup form to the protocol's pseudo/message/answer/avatar rules.
package validate

import "strings"

const (
	PseudoMinLen = 2
	PseudoMaxLen = 20
	MessageMaxLen = 200
	AnswerMaxLen  = 100
	AvatarURLMaxLen = 500
)

var pseudoBlacklist = "<>&\"'"

// Pseudo reports whether s satisfies the length and character-whitelist
// rule: length in [2,20], excluding < > & " '.
func Pseudo(s string) bool {
	n := len([]rune(s))
	if n < PseudoMinLen || n > PseudoMaxLen {
		return false
	}
	return !strings.ContainsAny(s, pseudoBlacklist)
}

// Message reports whether a chat message is within the length limit.
func Message(s string) bool {
	return len([]rune(s)) <= MessageMaxLen
}

// Answer reports whether a submitted answer is within the length limit.
func Answer(s string) bool {
	return len([]rune(s)) <= AnswerMaxLen
}

// AvatarURL reports whether an avatar URL is well-formed enough to keep;
// callers drop (not reject) a failing URL per spec.md 6.
func AvatarURL(s string) bool {
	if s == "" {
		return true
	}
	if len(s) > AvatarURLMaxLen {
		return false
	}
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// SanitizeAvatarURL returns s if it passes AvatarURL, else "".
func SanitizeAvatarURL(s string) string {
	if AvatarURL(s) {
		return s
	}
	return ""
}
