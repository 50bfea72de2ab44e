package state

import (
	"time"

	"github.com/nergy-se/dashboard/pkg/api/v1/types"
)

type View string

const (
	ViewIdle                 View = "idle"
	ViewResultsShown         View = "resultsShown"
	ViewResultsAndGraphShown View = "resultsAndGraphShown"
)

// State is a point in time copy of a dashboard. It is never mutated after creation.
type State struct {
	Inputs         types.SensorInputs `json:"inputs"`
	Results        []types.Result     `json:"results,omitempty"`
	ResultsVisible bool               `json:"resultsVisible"`
	GraphVisible   bool               `json:"graphVisible"`

	// Stale is true when inputs changed after the results were calculated.
	Stale        bool       `json:"stale"`
	CalculatedAt *time.Time `json:"calculatedAt,omitempty"`
}

func (s State) View() View {
	switch {
	case s.ResultsVisible && s.GraphVisible:
		return ViewResultsAndGraphShown
	case s.ResultsVisible:
		return ViewResultsShown
	}
	return ViewIdle
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Usage float64 `json:"usage"`
}

// Chart returns the bar chart data keyed by appliance name.
func (s State) Chart() []ChartPoint {
	points := make([]ChartPoint, 0, len(s.Results))
	for _, r := range s.Results {
		points = append(points, ChartPoint{Name: r.Name, Usage: r.Usage})
	}
	return points
}

// Map returns usage per appliance name.
func (s State) Map() map[string]interface{} {
	m := make(map[string]interface{})
	for _, r := range s.Results {
		m[r.Name] = r.Usage
	}
	return m
}
