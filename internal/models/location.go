package models

import "github.com/google/uuid"

// State is a reference row keyed by its canonical USPS code.
type State struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// City belongs to a state.
type City struct {
	ID      uuid.UUID `json:"id"`
	StateID uuid.UUID `json:"state_id"`
	Name    string    `json:"name"`
}

// County belongs to a state.
type County struct {
	ID      uuid.UUID `json:"id"`
	StateID uuid.UUID `json:"state_id"`
	Name    string    `json:"name"`
}
