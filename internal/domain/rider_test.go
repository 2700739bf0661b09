package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankFor(t *testing.T) {
	tests := []struct {
		completed int
		want      RiderRank
	}{
		{0, RankNewbie},
		{2, RankNewbie},
		{3, RankAmateur},
		{4, RankAmateur},
		{5, RankProfessional},
		{9, RankProfessional},
		{10, RankMaster},
		{42, RankMaster},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankFor(tt.completed), "completed=%d", tt.completed)
	}
}
