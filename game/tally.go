package game

import "github.com/Faltri/imposter-word-game/domain"

// Plurality counts votes per target and returns the target with the most votes. Ties go to
// the target that comes first in turn order. An empty ballot yields "".
func Plurality(votes map[string]domain.Vote, order []domain.Player) (string, map[string]int) {
	counts := make(map[string]int, len(order))
	for _, v := range votes {
		counts[v.TargetID]++
	}

	winner, best := "", 0
	for _, p := range order {
		if c := counts[p.ID]; c > best {
			winner, best = p.ID, c
		}
	}
	return winner, counts
}
