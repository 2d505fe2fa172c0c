package booking

import "github.com/hotelhub/service-booking/internal/domain/staff"

// transitionTable lists, per role, every status a booking may move to from
// each status. Managers hold a superset of the front-desk roles and admins a
// superset of managers. A status with no row has no outgoing move for that role.
var transitionTable = map[staff.Role]map[BookingStatus][]BookingStatus{
	staff.RoleReceptionist: frontDeskTransitions(),
	staff.RoleStaff:        frontDeskTransitions(),
	staff.RoleManager: {
		StatusPending:         {StatusAwaitingPayment, StatusConfirmed, StatusCancelled},
		StatusAwaitingPayment: {StatusConfirmed, StatusCancelled, StatusPending},
		StatusConfirmed:       {StatusCheckedIn, StatusNoShow, StatusCancelled},
		StatusCheckedIn:       {StatusCheckedOut},
		StatusCheckedOut:      {StatusCompleted, StatusRefunded},
		StatusNoShow:          {StatusCancelled, StatusRefunded},
	},
	staff.RoleAdmin: {
		StatusPending:         {StatusAwaitingPayment, StatusConfirmed, StatusCancelled},
		StatusAwaitingPayment: {StatusConfirmed, StatusCancelled, StatusPending},
		StatusConfirmed:       {StatusCheckedIn, StatusNoShow, StatusCancelled, StatusRefunded},
		StatusCheckedIn:       {StatusCheckedOut},
		StatusCheckedOut:      {StatusCompleted, StatusRefunded},
		StatusNoShow:          {StatusCancelled, StatusRefunded},
	},
}

func frontDeskTransitions() map[BookingStatus][]BookingStatus {
	return map[BookingStatus][]BookingStatus{
		StatusPending:         {StatusAwaitingPayment, StatusConfirmed, StatusCancelled},
		StatusAwaitingPayment: {StatusConfirmed, StatusCancelled},
		StatusConfirmed:       {StatusCheckedIn, StatusNoShow, StatusCancelled},
		StatusCheckedIn:       {StatusCheckedOut},
	}
}

// AllowedTransitions returns the statuses the role may move a booking to from
// current. The result is a fresh slice in table order and is empty for
// terminal statuses. Unknown roles are treated as staff.LeastPrivileged.
func AllowedTransitions(current BookingStatus, role staff.Role) []BookingStatus {
	if !role.IsValid() {
		role = staff.LeastPrivileged
	}
	if current.IsTerminal() {
		return []BookingStatus{}
	}
	targets := transitionTable[role][current]
	out := make([]BookingStatus, len(targets))
	copy(out, targets)
	return out
}

// IsTransitionAllowed reports whether role may move a booking from current to
// target. A same-status request is always allowed; callers must treat it as
// a no-op and not write.
func IsTransitionAllowed(current, target BookingStatus, role staff.Role) bool {
	if current == target {
		return true
	}
	for _, t := range AllowedTransitions(current, role) {
		if t == target {
			return true
		}
	}
	return false
}
