package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ClaimStatus
		to   ClaimStatus
		want bool
	}{
		{"pending to approved", ClaimPending, ClaimApproved, true},
		{"pending to rejected", ClaimPending, ClaimRejected, true},
		{"pending to completed", ClaimPending, ClaimCompleted, false},
		{"approved to completed", ClaimApproved, ClaimCompleted, true},
		{"approved to rejected", ClaimApproved, ClaimRejected, false},
		{"approved to pending", ClaimApproved, ClaimPending, false},
		{"rejected to approved", ClaimRejected, ClaimApproved, false},
		{"rejected to completed", ClaimRejected, ClaimCompleted, false},
		{"completed to anything", ClaimCompleted, ClaimApproved, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claim := Claim{Status: tc.from}
			assert.Equal(t, tc.want, claim.CanTransition(tc.to))
		})
	}
}

func TestClaimEditable(t *testing.T) {
	assert.True(t, (&Claim{Status: ClaimPending}).Editable())
	assert.False(t, (&Claim{Status: ClaimApproved}).Editable())
	assert.False(t, (&Claim{Status: ClaimRejected}).Editable())
	assert.False(t, (&Claim{Status: ClaimCompleted}).Editable())
}
