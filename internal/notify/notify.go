// Package notify delivers desktop notifications.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// AppName is shown as the notification source where the platform supports it.
const AppName = "Horalis"

// Desktop sends notifications through the platform notification center.
type Desktop struct {
	send func(title, message string, icon any) error
	icon []byte
}

// NewDesktop returns a desktop notifier. icon is PNG data and may be nil.
func NewDesktop(icon []byte) *Desktop {
	beeep.AppName = AppName
	return &Desktop{send: beeep.Notify, icon: icon}
}

// Notify shows a notification.
func (d *Desktop) Notify(title, message string) error {
	var icon any = ""
	if len(d.icon) > 0 {
		icon = d.icon
	}
	if err := d.send(title, message, icon); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
