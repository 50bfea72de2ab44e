package appliance

import (
	"github.com/nergy-se/dashboard/pkg/api/v1/types"
	"github.com/nergy-se/dashboard/pkg/estimator"
)

var appliances = [...]types.Appliance{
	{Name: "AC", Baseline: 50, Recommendation: "Consider optimizing AC usage during peak hours"},
	{Name: "Oven", Baseline: 40, Recommendation: "Usage is moderate, good energy management"},
	{Name: "Refrigerator", Baseline: 60, Recommendation: "Consider checking door seals and temperature settings"},
	{Name: "Fan", Baseline: 30, Recommendation: "Efficient usage, keep it up!"},
	{Name: "Light", Baseline: 25, Recommendation: "Great energy-saving practices"},
}

// All returns a copy of the appliance table in display order.
func All() []types.Appliance {
	list := make([]types.Appliance, len(appliances))
	copy(list, appliances[:])
	return list
}

// Calculate estimates usage for every appliance from the same inputs.
func Calculate(in types.SensorInputs) []types.Result {
	results := make([]types.Result, 0, len(appliances))
	for _, a := range appliances {
		results = append(results, types.Result{
			Name:           a.Name,
			Usage:          estimator.Estimate(a.Baseline, in),
			Recommendation: a.Recommendation,
		})
	}
	return results
}
