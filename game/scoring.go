package game

import (
	"slices"

	"github.com/Faltri/imposter-word-game/domain"
)

const (
	BaseWin         = 3
	BaseCorrectVote = 1
	DoubledPenalty  = 1
)

// Score returns a copy of players with the round's points applied, plus the per-player
// deltas keyed by id. Players with no vote simply get no vote bonus or penalty.
func Score(players []domain.Player, imposterIDs []string, outcome domain.Outcome, votes map[string]domain.Vote) ([]domain.Player, map[string]int) {
	isImposter := func(id string) bool { return slices.Contains(imposterIDs, id) }

	deltas := make(map[string]int, len(players))
	for _, p := range players {
		vote, voted := votes[p.ID]
		delta := 0
		switch outcome {
		case domain.OutcomeImposterWin:
			if isImposter(p.ID) {
				delta += BaseWin
			} else if voted && vote.Doubled {
				delta -= DoubledPenalty
			}
		case domain.OutcomeCivilianWin:
			if isImposter(p.ID) {
				break
			}
			delta += BaseWin
			if !voted {
				break
			}
			switch {
			case isImposter(vote.TargetID) && vote.Doubled:
				delta += 2 * BaseCorrectVote
			case isImposter(vote.TargetID):
				delta += BaseCorrectVote
			case vote.Doubled:
				delta -= DoubledPenalty
			}
		}
		deltas[p.ID] = delta
	}

	scored := slices.Clone(players)
	for i := range scored {
		scored[i].Score += deltas[scored[i].ID]
	}
	return scored, deltas
}
