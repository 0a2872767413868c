package booking

import "github.com/ManuelReschke/LocalBiz/app/models"

const (
	ActionConfirm  = "confirm"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
)

var actionTarget = map[string]string{
	ActionConfirm:  models.BookingStatusConfirmed,
	ActionCancel:   models.BookingStatusCancelled,
	ActionComplete: models.BookingStatusCompleted,
}

// allowed lists the states reachable from each state. Cancelled and
// completed bookings are terminal.
var allowed = map[string][]string{
	models.BookingStatusPending: {
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	},
}

// TargetStatus maps a form action to the status it leads to.
func TargetStatus(action string) (string, bool) {
	s, ok := actionTarget[action]
	return s, ok
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(status string) bool {
	return len(allowed[status]) == 0
}

// Actions returns the form actions available for a booking in the given status.
func Actions(status string) []string {
	var out []string
	for _, a := range []string{ActionConfirm, ActionCancel, ActionComplete} {
		if CanTransition(status, actionTarget[a]) {
			out = append(out, a)
		}
	}
	return out
}
