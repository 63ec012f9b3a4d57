package wire

import (
	"testing"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeDecodeAction(t *testing.T) {
	t.Parallel()
	rules := domain.DefaultRules()
	rules.SelectedCategories = []string{"food", "jobs"}
	rules.HardMode = true

	tests := []struct {
		name   string
		action domain.Action
	}{
		{"add player", domain.Action{Kind: domain.ActionAddPlayer, Name: "Ann", IsAI: true}},
		{"vote", domain.Action{Kind: domain.ActionCastVote, Epoch: 42, PlayerID: "p1", TargetID: "p2", Doubled: true}},
		{"clue", domain.Action{Kind: domain.ActionSubmitClue, Text: "ふわふわ 甘い"}},
		{"rules", domain.Action{Kind: domain.ActionConfirmRules, Rules: &rules}},
		{"bare", domain.Action{Kind: domain.ActionExit}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, err := EncodeAction(tc.action)
			require.NoError(t, err)
			got, err := DecodeAction(data)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.action, got); diff != "" {
				t.Errorf("DecodeAction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeActionSkipsUnknownFields(t *testing.T) {
	t.Parallel()
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = protowire.AppendTag(b, fieldKind, protowire.BytesType)
	b = protowire.AppendString(b, string(domain.ActionReroll))
	b = protowire.AppendTag(b, 100, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	got, err := DecodeAction(b)
	require.NoError(t, err)
	assert.Equal(t, domain.Action{Kind: domain.ActionReroll}, got)
}

func TestDecodeActionErrors(t *testing.T) {
	t.Parallel()
	var rulesFrame []byte
	rulesFrame = protowire.AppendTag(rulesFrame, fieldKind, protowire.BytesType)
	rulesFrame = protowire.AppendString(rulesFrame, string(domain.ActionConfirmRules))
	rulesFrame = protowire.AppendTag(rulesFrame, fieldRules, protowire.BytesType)
	rulesFrame = protowire.AppendBytes(rulesFrame, []byte("{not json"))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated tag", []byte{0xff}},
		{"truncated string", []byte{0x0a, 0x05, 'a'}},
		{"missing kind", protowire.AppendVarint(protowire.AppendTag(nil, fieldEpoch, protowire.VarintType), 3)},
		{"bad rules", rulesFrame},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeAction(tc.data)
			assert.ErrorIs(t, err, ErrMalformedFrame)
		})
	}
}
