package estimator

import (
	"github.com/nergy-se/dashboard/pkg/api/v1/types"
)

const (
	HotTemperature  = 30.0
	ColdTemperature = 10.0
	HotAdjust       = 20.0
	ColdAdjust      = -10.0

	DaytimeStart  = 9.0
	DaytimeEnd    = 17.0
	DaytimeAdjust = 10.0

	HighEnergyUsage  = 70.0
	HighEnergyAdjust = -15.0

	AbsentCap = 20.0

	MinUsage = 0.0
	MaxUsage = 100.0
)

// Estimate returns the usage percentage for an appliance with the given baseline.
// The absent cap is applied after all additive adjustments and the result is always within [0,100].
func Estimate(baseline float64, in types.SensorInputs) float64 {
	usage := baseline

	if in.Temperature > HotTemperature {
		usage += HotAdjust
	} else if in.Temperature < ColdTemperature {
		usage += ColdAdjust
	}

	if in.TimeOfDay >= DaytimeStart && in.TimeOfDay <= DaytimeEnd {
		usage += DaytimeAdjust
	}

	if in.EnergyUsage > HighEnergyUsage {
		usage += HighEnergyAdjust
	}

	if !in.UserPresence {
		usage = min(usage, AbsentCap)
	}

	return Clamp(usage, MinUsage, MaxUsage)
}

func Clamp(v, lo, hi float64) float64 {
	return max(min(v, hi), lo)
}
