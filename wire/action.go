// Package wire is the compact binary form of an action sent by the device over the socket.
// It is a protobuf message encoded by hand with protowire:
//
//	1 kind      string
//	2 epoch     varint
//	3 text      string
//	4 flags     varint  (bit 0 isAI, bit 1 doubled)
//	5 player_id string
//	6 target_id string
//	7 name      string
//	8 rules     bytes   (JSON RoundConfig)
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Faltri/imposter-word-game/domain"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldKind     protowire.Number = 1
	fieldEpoch    protowire.Number = 2
	fieldText     protowire.Number = 3
	fieldFlags    protowire.Number = 4
	fieldPlayerID protowire.Number = 5
	fieldTargetID protowire.Number = 6
	fieldName     protowire.Number = 7
	fieldRules    protowire.Number = 8
)

const (
	flagIsAI uint64 = 1 << iota
	flagDoubled
)

var ErrMalformedFrame = errors.New("malformed-frame")

func EncodeAction(a domain.Action) ([]byte, error) {
	var b []byte
	b = appendString(b, fieldKind, string(a.Kind))
	if a.Epoch != 0 {
		b = protowire.AppendTag(b, fieldEpoch, protowire.VarintType)
		b = protowire.AppendVarint(b, a.Epoch)
	}
	b = appendString(b, fieldText, a.Text)

	var flags uint64
	if a.IsAI {
		flags |= flagIsAI
	}
	if a.Doubled {
		flags |= flagDoubled
	}
	if flags != 0 {
		b = protowire.AppendTag(b, fieldFlags, protowire.VarintType)
		b = protowire.AppendVarint(b, flags)
	}

	b = appendString(b, fieldPlayerID, a.PlayerID)
	b = appendString(b, fieldTargetID, a.TargetID)
	b = appendString(b, fieldName, a.Name)

	if a.Rules != nil {
		rules, err := json.Marshal(a.Rules)
		if err != nil {
			return nil, fmt.Errorf("encoding rules: %w", err)
		}
		b = protowire.AppendTag(b, fieldRules, protowire.BytesType)
		b = protowire.AppendBytes(b, rules)
	}
	return b, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// DecodeAction parses a binary action frame. Unknown fields are skipped.
func DecodeAction(data []byte) (domain.Action, error) {
	var a domain.Action
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return domain.Action{}, fmt.Errorf("%w: %w", ErrMalformedFrame, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case typ == protowire.VarintType && (num == fieldEpoch || num == fieldFlags):
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return domain.Action{}, fmt.Errorf("%w: %w", ErrMalformedFrame, protowire.ParseError(n))
			}
			data = data[n:]
			if num == fieldEpoch {
				a.Epoch = v
			} else {
				a.IsAI = v&flagIsAI != 0
				a.Doubled = v&flagDoubled != 0
			}

		case typ == protowire.BytesType && num >= fieldKind && num <= fieldRules:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return domain.Action{}, fmt.Errorf("%w: %w", ErrMalformedFrame, protowire.ParseError(n))
			}
			data = data[n:]
			if err := setBytesField(&a, num, v); err != nil {
				return domain.Action{}, err
			}

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return domain.Action{}, fmt.Errorf("%w: %w", ErrMalformedFrame, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	if a.Kind == "" {
		return domain.Action{}, fmt.Errorf("%w: missing kind", ErrMalformedFrame)
	}
	return a, nil
}

func setBytesField(a *domain.Action, num protowire.Number, v []byte) error {
	switch num {
	case fieldKind:
		a.Kind = domain.ActionKind(v)
	case fieldText:
		a.Text = string(v)
	case fieldPlayerID:
		a.PlayerID = string(v)
	case fieldTargetID:
		a.TargetID = string(v)
	case fieldName:
		a.Name = string(v)
	case fieldRules:
		var rules domain.RoundConfig
		if err := json.Unmarshal(v, &rules); err != nil {
			return fmt.Errorf("%w: rules: %w", ErrMalformedFrame, err)
		}
		a.Rules = &rules
	}
	return nil
}
