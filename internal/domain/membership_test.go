package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeSession(maxParticipants int, participants ...string) *Session {
	return &Session{
		MaxParticipants: maxParticipants,
		Participants:    participants,
	}
}

func TestCanJoin_EmptySession(t *testing.T) {
	s := makeSession(5)
	assert.Equal(t, Admit, CanJoin(s, "alice"))
}

func TestCanJoin_AlreadyMember(t *testing.T) {
	s := makeSession(5, "alice", "bob")
	assert.Equal(t, AlreadyMember, CanJoin(s, "alice"))
}

func TestCanJoin_Full(t *testing.T) {
	s := makeSession(2, "alice", "bob")
	assert.Equal(t, Full, CanJoin(s, "carol"))
}

func TestCanJoin_MemberAtCapacityStillAdmitted(t *testing.T) {
	// Membership check precedes capacity check: re-join at capacity succeeds.
	s := makeSession(2, "alice", "bob")
	assert.Equal(t, AlreadyMember, CanJoin(s, "bob"))
}

func TestCanJoin_CapacityScenario(t *testing.T) {
	// create max=2; A joins, B joins, C rejected, A re-joins.
	s := makeSession(2)

	assert.Equal(t, Admit, CanJoin(s, "userA"))
	s.Participants = append(s.Participants, "userA")

	assert.Equal(t, Admit, CanJoin(s, "userB"))
	s.Participants = append(s.Participants, "userB")

	assert.Equal(t, Full, CanJoin(s, "userC"))
	assert.Equal(t, AlreadyMember, CanJoin(s, "userA"))
	assert.Len(t, s.Participants, 2)
}

func TestJoinDecision_String(t *testing.T) {
	assert.Equal(t, "already_member", AlreadyMember.String())
	assert.Equal(t, "admit", Admit.String())
	assert.Equal(t, "full", Full.String())
	assert.Equal(t, "unknown", JoinDecision(42).String())
}
