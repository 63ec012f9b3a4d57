package game

import (
	"testing"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		imposters  []string
		outcome    domain.Outcome
		votes      map[string]domain.Vote
		wantDeltas map[string]int
	}{
		{
			name:      "civilians win",
			imposters: []string{"p1"},
			outcome:   domain.OutcomeCivilianWin,
			votes: map[string]domain.Vote{
				"p1": {TargetID: "p2"},
				"p2": {TargetID: "p1"},
				"p3": {TargetID: "p1", Doubled: true},
				"p4": {TargetID: "p2"},
			},
			wantDeltas: map[string]int{"p1": 0, "p2": 4, "p3": 5, "p4": 3},
		},
		{
			name:      "civilians win, doubled wrong vote",
			imposters: []string{"p1"},
			outcome:   domain.OutcomeCivilianWin,
			votes: map[string]domain.Vote{
				"p2": {TargetID: "p1"},
				"p3": {TargetID: "p1"},
				"p4": {TargetID: "p2", Doubled: true},
			},
			wantDeltas: map[string]int{"p1": 0, "p2": 4, "p3": 4, "p4": 2},
		},
		{
			name:      "imposter wins",
			imposters: []string{"p1"},
			outcome:   domain.OutcomeImposterWin,
			votes: map[string]domain.Vote{
				"p1": {TargetID: "p2", Doubled: true},
				"p2": {TargetID: "p3", Doubled: true},
				"p3": {TargetID: "p1"},
				"p4": {TargetID: "p1", Doubled: true},
			},
			wantDeltas: map[string]int{"p1": 3, "p2": -1, "p3": 0, "p4": -1},
		},
		{
			name:       "two imposters win",
			imposters:  []string{"p1", "p3"},
			outcome:    domain.OutcomeImposterWin,
			votes:      map[string]domain.Vote{},
			wantDeltas: map[string]int{"p1": 3, "p2": 0, "p3": 3, "p4": 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			players := makePlayers(4)
			players[0].Score = 10

			scored, deltas := Score(players, tc.imposters, tc.outcome, tc.votes)

			assert.Equal(t, tc.wantDeltas, deltas)
			for i, p := range scored {
				base := 0
				if i == 0 {
					base = 10
				}
				assert.Equal(t, base+tc.wantDeltas[p.ID], p.Score, p.ID)
			}
			assert.Equal(t, 10, players[0].Score, "input must not change")
		})
	}
}
