package webhook

import (
	"regexp"
	"strings"
)

var noteKVRe = regexp.MustCompile(`(?i)(?:^|[\s,;])([a-zA-Z0-9_]+)=([a-zA-Z0-9-]+)`)

// ParseKeyFromNote extracts a key=value token from a free-text payment
// description. Providers echo the description we set at checkout, usually with
// their own prefix or punctuation around it.
//
// Example description:
//   "Tour booking: booking_id=6f1c2a1e-8d4b-4c39-9a53-2b1f0c4de001"
func ParseKeyFromNote(note string, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	for _, m := range noteKVRe.FindAllStringSubmatch(note, -1) {
		if len(m) == 3 && strings.EqualFold(m[1], key) {
			return m[2]
		}
	}
	return ""
}
