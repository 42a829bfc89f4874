package discord

import (
	"strconv"
	"strings"
	"unicode"
)

// maxThreadNameLen is Discord's channel/thread name length limit.
const maxThreadNameLen = 100

// ArchiveThreadName generates the archive thread name for a user.
// Format: {username} ({userID}); the user ID suffix keeps the thread
// findable after username changes.
func ArchiveThreadName(username, userID string) string {
	name := sanitizeThreadName(username)
	if name == "" {
		name = "user"
	}

	full := name + " (" + userID + ")"
	if len(full) > maxThreadNameLen {
		// Truncate the username part only; the ID suffix must stay intact
		keep := maxThreadNameLen - len(userID) - 3
		if keep < 1 {
			return userID
		}
		full = strings.TrimRight(name[:keep], " ") + " (" + userID + ")"
	}

	return full
}

// CaseChannelName generates the channel name for a live case.
// Format: {type}-{id}-{username}, lowercased with invalid runes dropped.
func CaseChannelName(typeID string, caseID int64, username string) string {
	var b strings.Builder
	b.Grow(len(typeID) + len(username) + 8)

	writeSegment := func(s string) {
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
				b.WriteRune(r)
			case r >= 'A' && r <= 'Z':
				b.WriteRune(unicode.ToLower(r))
			case r == ' ':
				b.WriteRune('-')
			case r > 127:
				b.WriteRune(r)
			}
		}
	}

	writeSegment(typeID)
	b.WriteRune('-')
	b.WriteString(strconv.FormatInt(caseID, 10))
	if username != "" {
		b.WriteRune('-')
		writeSegment(username)
	}

	name := b.String()
	if len(name) > maxThreadNameLen {
		name = strings.TrimRight(name[:maxThreadNameLen], "-")
	}
	return name
}

func sanitizeThreadName(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}
