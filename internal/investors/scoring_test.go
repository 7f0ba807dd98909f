package investors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchScoreBounds(t *testing.T) {
	cases := []struct {
		name      string
		active    bool
		portfolio []string
		focus     []string
	}{
		{"empty profile", false, nil, nil},
		{"active only", true, nil, nil},
		{"portfolio only", false, []string{"Acme"}, nil},
		{"focus only", false, nil, []string{"AI/ML"}},
		{"everything", true, []string{"Acme", "Globex"}, []string{"AI/ML", "Web3"}},
	}

	for _, tc := range cases {
		score := MatchScore(tc.active, tc.portfolio, tc.focus)
		assert.GreaterOrEqual(t, score, 0, tc.name)
		assert.LessOrEqual(t, score, 100, tc.name)
	}
}

func TestMatchScoreWeights(t *testing.T) {
	assert.Equal(t, 50, MatchScore(false, nil, nil))
	assert.Equal(t, 80, MatchScore(true, nil, nil))
	assert.Equal(t, 70, MatchScore(false, []string{"Acme"}, nil))
	assert.Equal(t, 60, MatchScore(false, nil, []string{"AI/ML"}))
	assert.Equal(t, 100, MatchScore(true, []string{"Acme"}, []string{"AI/ML"}))
}

func TestMatchScoreMonotonic(t *testing.T) {
	portfolio := []string{"Acme"}
	focus := []string{"AI/ML"}

	// Activating a flag never lowers the score, other fields held equal
	assert.GreaterOrEqual(t, MatchScore(true, nil, nil), MatchScore(false, nil, nil))
	assert.GreaterOrEqual(t, MatchScore(true, portfolio, focus), MatchScore(false, portfolio, focus))
	assert.GreaterOrEqual(t, MatchScore(false, portfolio, nil), MatchScore(false, nil, nil))
	assert.GreaterOrEqual(t, MatchScore(false, nil, focus), MatchScore(false, nil, nil))
}

func TestMatchScoreViewerIndependent(t *testing.T) {
	// The score is a pure function of the profile; repeated calls agree
	first := MatchScore(true, []string{"Acme"}, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, MatchScore(true, []string{"Acme"}, nil))
	}
}

func TestScoreProfile(t *testing.T) {
	p := &Profile{
		Name:              "Sarah Chen",
		ActivelyInvesting: true,
		Portfolio:         []string{"OpenAI", "Scale AI"},
		Focus:             []string{"AI/ML", "Developer Tools"},
	}
	ScoreProfile(p)
	assert.Equal(t, 100, p.MatchScore)
}
