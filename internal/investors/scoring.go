package investors

// Score weights. The score is a function of the investor profile alone and is
// identical for every viewer; it does not consider the requesting project.
const (
	baseScore          = 50
	activeBonus        = 30
	portfolioBonus     = 20
	focusBonus         = 10
	maxScore           = 100
)

// MatchScore derives the 0-100 suitability score for an investor profile.
// Missing fields behave as empty/false, so the result is always in range.
func MatchScore(activelyInvesting bool, portfolio []string, focus []string) int {
	score := baseScore
	if activelyInvesting {
		score += activeBonus
	}
	if len(portfolio) > 0 {
		score += portfolioBonus
	}
	if len(focus) > 0 {
		score += focusBonus
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// ScoreProfile fills in the derived MatchScore on a profile
func ScoreProfile(p *Profile) {
	p.MatchScore = MatchScore(p.ActivelyInvesting, p.Portfolio, p.Focus)
}
