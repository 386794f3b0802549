package domain

// JoinDecision is the outcome of the participant membership rule.
type JoinDecision int

const (
	// AlreadyMember means the user is in the session; joining again is a no-op success.
	AlreadyMember JoinDecision = iota
	// Admit means the user may join.
	Admit
	// Full means the session is at capacity.
	Full
)

func (d JoinDecision) String() string {
	switch d {
	case AlreadyMember:
		return "already_member"
	case Admit:
		return "admit"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// CanJoin decides whether a user may join a session. The membership check
// precedes the capacity check, so an existing member re-joining at capacity
// is still admitted.
func CanJoin(s *Session, userID string) JoinDecision {
	for _, id := range s.Participants {
		if id == userID {
			return AlreadyMember
		}
	}
	if len(s.Participants) >= s.MaxParticipants {
		return Full
	}
	return Admit
}
