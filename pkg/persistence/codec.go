// Package persistence defines the at-rest encoding of session state. Stores
// that persist bytes (redis, sqlite, file) run every Save and Load through a
// Codec; wrapping the plain JSON codec adds encryption or history capping
// without the stores knowing.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// Codec turns session state into its stored byte form and back.
type Codec interface {
	Encode(state domain.State) ([]byte, error)
	Decode(data []byte) (domain.State, error)
}

// JSON is the default codec: the state's plain JSON encoding.
type JSON struct{}

func (JSON) Encode(state domain.State) ([]byte, error) {
	return json.Marshal(&state)
}

func (JSON) Decode(data []byte) (domain.State, error) {
	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, nil
}
