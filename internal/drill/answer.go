package drill

import "strings"

// CheckAnswer reports whether the learner's response matches the canonical
// answer. Surrounding whitespace in the response is ignored; the comparison is
// otherwise exact.
func CheckAnswer(response, canonical string) bool {
	return strings.TrimSpace(response) == canonical
}
