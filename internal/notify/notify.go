// Package notify surfaces refresh confirmations to the user.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// appName is shown as the notification source.
const appName = "namsa insights"

// Notifier delivers short user-visible messages. The zero value
// logs only; enable Desktop for OS notifications.
type Notifier struct {
	// Desktop sends an OS desktop notification per message.
	Desktop bool
	// alert is swapped out by tests.
	alert func(title, message string) error
}

// New creates a Notifier.
func New(desktop bool) *Notifier {
	return &Notifier{
		Desktop: desktop,
		alert: func(title, message string) error {
			beeep.AppName = appName
			return beeep.Notify(title, message, "")
		},
	}
}

// Notify delivers one message. Delivery failures are logged and
// swallowed; a missed toast must never break a refresh.
func (n *Notifier) Notify(message string) {
	log.Printf("notify: %s", message)
	if !n.Desktop {
		return
	}
	if err := n.alert(appName, message); err != nil {
		log.Printf("notify: desktop notification: %v", err)
	}
}
