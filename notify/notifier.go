// Package notify delivers snapshot images to the notification channel.
package notify

// Notifier accepts a JPEG-encoded snapshot plus a caption and attempts
// a single transmission. Failures are reported as-is; the caller never
// retries automatically and treats the reason as opaque.
type Notifier interface {
	Send(image []byte, caption string) error
}

type nopNotifier struct{}

// NopNotifier is a Notifier that discards everything. Useful when no
// channel is configured or in tests.
var NopNotifier Notifier = &nopNotifier{}

// Send does nothing and returns nil.
func (n *nopNotifier) Send(image []byte, caption string) error {
	return nil
}
