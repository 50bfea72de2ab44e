package types

// SensorInputs are the four simulated readings the user adjusts on the dashboard.
type SensorInputs struct {
	Temperature  float64 `json:"temperature"`
	TimeOfDay    float64 `json:"timeOfDay"`
	EnergyUsage  float64 `json:"energyUsage"`
	UserPresence bool    `json:"userPresence"`
}

// DefaultSensorInputs is what a new session starts with.
func DefaultSensorInputs() SensorInputs {
	return SensorInputs{
		Temperature:  20,
		TimeOfDay:    12,
		EnergyUsage:  50,
		UserPresence: true,
	}
}

// Input control ranges. All controls step by 1.
const (
	TemperatureMin = 0.0
	TemperatureMax = 40.0
	TimeOfDayMin   = 0.0
	TimeOfDayMax   = 24.0
	EnergyUsageMin = 0.0
	EnergyUsageMax = 100.0
)

type Appliance struct {
	Name           string  `json:"name"`
	Baseline       float64 `json:"baseline"`
	Recommendation string  `json:"recommendation"`
}

type Result struct {
	Name           string  `json:"name"`
	Usage          float64 `json:"usage"`
	Recommendation string  `json:"recommendation"`
}
