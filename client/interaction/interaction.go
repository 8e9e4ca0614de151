// Package interaction wires the optimistic state machine to the concrete
// like, follow and thread interactions of the platform.
package interaction

import (
	"errors"

	"devlink/client/cancel"
	"devlink/client/optimistic"
)

// Toast kinds.
const (
	ToastError   = "error"
	ToastSuccess = "success"
)

// Toaster shows a short message to the user.
type Toaster func(kind, message string)

// NoToast discards toasts.
func NoToast(string, string) {}

// fail reports err to the user unless it is a cancelled request or a
// double submission.
func fail(toast Toaster, err error, message string) {
	if err == nil || cancel.IsAbort(err) || errors.Is(err, optimistic.ErrInFlight) {
		return
	}
	toast(ToastError, message)
}
