package models

// Transition tables for every stateful entity. A transition not listed
// here is rejected, which keeps ad hoc status writes out of the services.

var requestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusAccepted, RequestStatusDeclined, RequestStatusExpired, RequestStatusCancelled},
	RequestStatusAccepted: {RequestStatusMatched, RequestStatusCancelled},
	// declined, expired, cancelled and matched are terminal
}

var matchTransitions = map[string][]string{
	MatchStateOpen:     {MatchStateUnlocked, MatchStateCancelled},
	MatchStateUnlocked: {MatchStateLocked, MatchStateCancelled},
	MatchStateLocked:   {MatchStateVerified, MatchStateCancelled},
	MatchStateVerified: {MatchStateCancelled},
	// CANCELLED is absorbing
}

var teamTransitions = map[string][]string{
	TeamStatusForming: {TeamStatusLocked},
	TeamStatusLocked:  {TeamStatusForming}, // only via cancellation cascade
}

var cancellationTransitions = map[string][]string{
	CancellationStatusPending:  {CancellationStatusAccepted, CancellationStatusDeclined},
	CancellationStatusAccepted: {CancellationStatusApproved, CancellationStatusRejected},
}

func canMove(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionRequest reports whether a MatchRequest may move from one
// status to another.
func CanTransitionRequest(from, to string) bool {
	return canMove(requestTransitions, from, to)
}

// CanTransitionMatch reports whether a Match may move from one state to
// another.
func CanTransitionMatch(from, to string) bool {
	return canMove(matchTransitions, from, to)
}

// CanTransitionTeam reports whether a Team may move between statuses.
func CanTransitionTeam(from, to string) bool {
	return canMove(teamTransitions, from, to)
}

// CanTransitionCancellation reports whether a cancellation request may
// move between statuses.
func CanTransitionCancellation(from, to string) bool {
	return canMove(cancellationTransitions, from, to)
}

// IsTerminalRequestStatus reports whether a request status can never be
// re-opened.
func IsTerminalRequestStatus(status string) bool {
	switch status {
	case RequestStatusDeclined, RequestStatusExpired, RequestStatusCancelled, RequestStatusMatched:
		return true
	}
	return false
}

// IsActiveMatchState reports whether a match state counts against the
// per-user match limit.
func IsActiveMatchState(state string) bool {
	switch state {
	case MatchStateOpen, MatchStateUnlocked, MatchStateLocked, MatchStateVerified:
		return true
	}
	return false
}
