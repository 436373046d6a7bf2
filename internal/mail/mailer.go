package mail

import (
	"context"
	"strings"
)

// Mailer sends one HTML message to every address in a raw recipient string.
// Implementations must treat an empty recipient list as a silent no-op.
type Mailer interface {
	Send(ctx context.Context, recipients, subject, htmlBody string) error
}

// Recipients parses a comma-separated address string into a trimmed,
// de-duplicated list. Comparison is case-sensitive; order of first
// appearance is preserved.
func Recipients(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// MergeRecipients unions two raw recipient strings, preserving first
// appearance order across both.
func MergeRecipients(old, current string) []string {
	merged := Recipients(old)
	seen := map[string]bool{}
	for _, a := range merged {
		seen[a] = true
	}
	for _, a := range Recipients(current) {
		if !seen[a] {
			seen[a] = true
			merged = append(merged, a)
		}
	}
	return merged
}
