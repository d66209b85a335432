package domain

import "strings"

const (
	DefaultThread       ThreadName = "General"
	AnnouncementsThread ThreadName = "Announcements"
)

// The default thread absorbs posts from deleted threads, so it can be
// neither renamed nor deleted.
func IsDefaultThread(name ThreadName) bool {
	return strings.EqualFold(strings.TrimSpace(name), DefaultThread)
}
