package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRewards_Level(t *testing.T) {
	tests := []struct {
		points                     int
		level, progress, remaining int
	}{
		{points: 0, level: 1, progress: 0, remaining: 100},
		{points: 99, level: 1, progress: 99, remaining: 1},
		{points: 100, level: 2, progress: 0, remaining: 100},
		{points: 250, level: 3, progress: 50, remaining: 50},
	}

	for _, tt := range tests {
		u := &UserRewards{Points: tt.points}
		level, progress, remaining := u.Level()
		assert.Equal(t, tt.level, level, "points=%d", tt.points)
		assert.Equal(t, tt.progress, progress, "points=%d", tt.points)
		assert.Equal(t, tt.remaining, remaining, "points=%d", tt.points)
	}
}

func TestIncident_ApplyVoteTracksUpvoters(t *testing.T) {
	inc := &Incident{}
	inc.ApplyVote("a", VoteUp)
	inc.ApplyVote("b", VoteDown)
	inc.ApplyVote("c", VoteUp)

	assert.Equal(t, []string{"a", "b", "c"}, inc.VotedBy)
	assert.Equal(t, []string{"a", "c"}, inc.UpvotedBy)
	assert.Equal(t, inc.Upvotes, len(inc.UpvotedBy))

	c := inc.Clone()
	c.UpvotedBy[0] = "changed"
	assert.Equal(t, "a", inc.UpvotedBy[0])
}
