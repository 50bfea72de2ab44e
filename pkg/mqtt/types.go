package mqtt

import (
	"time"

	"github.com/nergy-se/dashboard/pkg/api/v1/types"
	"github.com/nergy-se/dashboard/pkg/state"
)

type Message struct {
	Session      string             `json:"session"`
	View         state.View         `json:"view"`
	Inputs       types.SensorInputs `json:"inputs"`
	Usage        map[string]float64 `json:"usage"`
	CalculatedAt time.Time          `json:"calculatedAt"`
}

func NewMessage(id string, s state.State) Message {
	m := Message{
		Session: id,
		View:    s.View(),
		Inputs:  s.Inputs,
		Usage:   make(map[string]float64, len(s.Results)),
	}
	for _, r := range s.Results {
		m.Usage[r.Name] = r.Usage
	}
	if s.CalculatedAt != nil {
		m.CalculatedAt = *s.CalculatedAt
	}
	return m
}
