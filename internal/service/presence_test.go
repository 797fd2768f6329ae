package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceLastWriteWins(t *testing.T) {
	tracker := NewPresenceTracker()

	assert.Equal(t, "", tracker.CurrentRoom("alice"))

	tracker.SetCurrentRoom("alice", "1")
	assert.Equal(t, "1", tracker.CurrentRoom("alice"))

	tracker.SetCurrentRoom("alice", "dev")
	assert.Equal(t, "dev", tracker.CurrentRoom("alice"))

	tracker.Clear("alice")
	assert.Equal(t, "", tracker.CurrentRoom("alice"))
}

func TestPresenceIgnoresEmptyUser(t *testing.T) {
	tracker := NewPresenceTracker()
	tracker.SetCurrentRoom("", "1")
	assert.Equal(t, "", tracker.CurrentRoom(""))
}
