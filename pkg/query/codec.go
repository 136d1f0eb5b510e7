package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when decoding a definition of an unknown kind
var ErrUnknownKind = errors.New("unknown query definition kind")

type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Marshal encodes a definition together with its kind
func Marshal(def Definition) ([]byte, error) {
	payload, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{Kind: def.Kind(), Payload: payload})
}

// Unmarshal decodes a definition written by Marshal
func Unmarshal(data []byte) (Definition, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindPlan:
		p := &Plan{}
		if err := json.Unmarshal(env.Payload, p); err != nil {
			return nil, err
		}
		p.relink()
		return p, nil
	case KindSubPlan:
		s := &SubPlan{}
		if err := json.Unmarshal(env.Payload, s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
}
