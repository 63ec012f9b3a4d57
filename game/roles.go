package game

import (
	"math/rand"

	"github.com/Faltri/imposter-word-game/domain"
)

const maxFairPlaySwaps = 10

// ImposterCount is 2 for double agent games with enough players, 1 otherwise.
func ImposterCount(players int, doubleAgent bool) int {
	if doubleAgent && players >= domain.DoubleAgentMinPlayers {
		return 2
	}
	return 1
}

// AssignRoles deals roles and returns the players in turn order together with the imposter
// ids. The input slice is not modified. fair is false only when fair play was requested
// and position 0 could not be given to a civilian.
func AssignRoles(players []domain.Player, rules domain.RoundConfig, rng *rand.Rand) (ordered []domain.Player, imposterIDs []string, fair bool) {
	n := len(players)
	ordered = make([]domain.Player, n)
	copy(ordered, players)
	if n == 0 {
		return ordered, nil, false
	}

	count := min(ImposterCount(n, rules.DoubleAgent), n)
	chosen := make(map[int]bool, count)
	for len(chosen) < count {
		chosen[rng.Intn(n)] = true
	}
	for i := range ordered {
		if chosen[i] {
			ordered[i].Role = domain.RoleImposter
		} else {
			ordered[i].Role = domain.RoleCivilian
		}
	}

	rng.Shuffle(n, func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })

	fair = true
	if rules.FairPlayEnabled {
		fair = applyFairPlay(ordered, rng)
	}

	imposterIDs = make([]string, 0, count)
	for _, p := range ordered {
		if p.Role == domain.RoleImposter {
			imposterIDs = append(imposterIDs, p.ID)
		}
	}
	return ordered, imposterIDs, fair
}

func applyFairPlay(ordered []domain.Player, rng *rand.Rand) bool {
	for attempt := 0; attempt < maxFairPlaySwaps && ordered[0].Role == domain.RoleImposter; attempt++ {
		candidates := make([]int, 0, len(ordered))
		for i := 1; i < len(ordered); i++ {
			if ordered[i].Role != domain.RoleImposter {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return false
		}
		j := candidates[rng.Intn(len(candidates))]
		ordered[0], ordered[j] = ordered[j], ordered[0]
	}
	return ordered[0].Role != domain.RoleImposter
}
