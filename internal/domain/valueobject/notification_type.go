package valueobject

import "fmt"

// NotificationType sets how a notification is presented.
type NotificationType struct {
	value string
}

var (
	NotificationInfo    = NotificationType{value: "info"}
	NotificationSuccess = NotificationType{value: "success"}
	NotificationWarning = NotificationType{value: "warning"}
	NotificationError   = NotificationType{value: "error"}
)

// NewNotificationType parses a notification type name.
func NewNotificationType(s string) (NotificationType, error) {
	for _, t := range []NotificationType{NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError} {
		if t.value == s {
			return t, nil
		}
	}
	return NotificationType{}, fmt.Errorf("invalid notification type: %q", s)
}

func (t NotificationType) String() string { return t.value }
