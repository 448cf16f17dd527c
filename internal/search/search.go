// Package search filters voter records by a free-text term and owns
// the debounce state machine that sits between keystrokes and the
// committed term.
package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/boothworks/voterscan/internal/model"
)

// Filter returns the voters matching term, preserving input order. An
// empty or whitespace-only term matches everything and returns the
// input slice unchanged. Matching is a case-insensitive substring test
// against name, voter ID and serial number. Text is NFC-normalized
// first so that composed and decomposed Tamil input compare equal.
func Filter(voters []model.VoterRecord, term string) []model.VoterRecord {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return voters
	}

	needle := fold(trimmed)
	out := make([]model.VoterRecord, 0, len(voters))
	for _, v := range voters {
		if strings.Contains(fold(v.Name), needle) ||
			strings.Contains(fold(v.VoterID), needle) ||
			strings.Contains(fold(v.SerialNumber), needle) {
			out = append(out, v)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
