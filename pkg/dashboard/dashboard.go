package dashboard

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nergy-se/dashboard/pkg/api/v1/types"
	"github.com/nergy-se/dashboard/pkg/appliance"
	"github.com/nergy-se/dashboard/pkg/state"
	"github.com/sirupsen/logrus"
)

var (
	ErrOutOfRange = errors.New("value out of range")
	ErrNoResults  = errors.New("no results calculated yet")
)

// Notifier is told about every snapshot produced by Calculate and ShowGraph.
// Notify is called with the dashboard locked and must not call back into it.
type Notifier interface {
	Notify(id string, s state.State) error
}

type Dashboard struct {
	id       string
	notifier Notifier
	now      func() time.Time

	inputs         types.SensorInputs
	results        []types.Result
	resultsVisible bool
	graphVisible   bool
	calculatedWith types.SensorInputs
	calculatedAt   time.Time

	mutex sync.Mutex
}

func New(id string, notifier Notifier) *Dashboard {
	return &Dashboard{
		id:       id,
		notifier: notifier,
		now:      time.Now,
		inputs:   types.DefaultSensorInputs(),
	}
}

func (d *Dashboard) ID() string {
	return d.id
}

func (d *Dashboard) SetTemperature(v float64) error {
	v, err := step(v, types.TemperatureMin, types.TemperatureMax)
	if err != nil {
		return fmt.Errorf("temperature: %w", err)
	}
	d.update(func(in *types.SensorInputs) { in.Temperature = v })
	return nil
}

func (d *Dashboard) SetTimeOfDay(v float64) error {
	v, err := step(v, types.TimeOfDayMin, types.TimeOfDayMax)
	if err != nil {
		return fmt.Errorf("timeOfDay: %w", err)
	}
	d.update(func(in *types.SensorInputs) { in.TimeOfDay = v })
	return nil
}

func (d *Dashboard) SetEnergyUsage(v float64) error {
	v, err := step(v, types.EnergyUsageMin, types.EnergyUsageMax)
	if err != nil {
		return fmt.Errorf("energyUsage: %w", err)
	}
	d.update(func(in *types.SensorInputs) { in.EnergyUsage = v })
	return nil
}

func (d *Dashboard) SetUserPresence(b bool) {
	d.update(func(in *types.SensorInputs) { in.UserPresence = b })
}

// SetInputs replaces all four inputs. Nothing is changed if any value is out of range.
func (d *Dashboard) SetInputs(in types.SensorInputs) error {
	var err error
	if in.Temperature, err = step(in.Temperature, types.TemperatureMin, types.TemperatureMax); err != nil {
		return fmt.Errorf("temperature: %w", err)
	}
	if in.TimeOfDay, err = step(in.TimeOfDay, types.TimeOfDayMin, types.TimeOfDayMax); err != nil {
		return fmt.Errorf("timeOfDay: %w", err)
	}
	if in.EnergyUsage, err = step(in.EnergyUsage, types.EnergyUsageMin, types.EnergyUsageMax); err != nil {
		return fmt.Errorf("energyUsage: %w", err)
	}
	d.update(func(cur *types.SensorInputs) { *cur = in })
	return nil
}

func (d *Dashboard) update(fn func(*types.SensorInputs)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	fn(&d.inputs)
}

// Calculate recomputes results for all appliances from the current inputs and hides the graph.
func (d *Dashboard) Calculate() state.State {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.results = appliance.Calculate(d.inputs)
	d.resultsVisible = true
	d.graphVisible = false
	d.calculatedWith = d.inputs
	d.calculatedAt = d.now()
	s := d.snapshot()

	logrus.WithFields(logrus.Fields(s.Map())).Debugf("dashboard %s: calculated", d.id)
	d.notify(s)
	return s
}

// ShowGraph reveals the chart for the current results. It does not recompute.
func (d *Dashboard) ShowGraph() (state.State, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.resultsVisible {
		return state.State{}, ErrNoResults
	}
	d.graphVisible = true
	s := d.snapshot()

	d.notify(s)
	return s, nil
}

func (d *Dashboard) Snapshot() state.State {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.snapshot()
}

func (d *Dashboard) snapshot() state.State {
	s := state.State{
		Inputs:         d.inputs,
		ResultsVisible: d.resultsVisible,
		GraphVisible:   d.graphVisible,
		Stale:          d.resultsVisible && d.inputs != d.calculatedWith,
	}
	if d.results != nil {
		s.Results = make([]types.Result, len(d.results))
		copy(s.Results, d.results)
		t := d.calculatedAt
		s.CalculatedAt = &t
	}
	return s
}

func (d *Dashboard) notify(s state.State) {
	if d.notifier == nil {
		return
	}
	err := d.notifier.Notify(d.id, s)
	if err != nil {
		logrus.Errorf("dashboard %s: error notifying: %s", d.id, err)
	}
}

// step rounds to the nearest whole unit like the range controls do.
func step(v, lo, hi float64) (float64, error) {
	if math.IsNaN(v) || v < lo || v > hi {
		return v, fmt.Errorf("%w: %v not in [%v,%v]", ErrOutOfRange, v, lo, hi)
	}
	return math.Round(v), nil
}
