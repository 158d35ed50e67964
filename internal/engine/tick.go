// Package engine provides the tick-based simulation loop. One tick is one
// simulated day.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Calendar constants. A season is 90 days, a year four seasons.
const (
	DaysPerSeason = 90
	DaysPerYear   = 360
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	Running  bool

	// Callbacks, populated during setup.
	OnDay    func(tick uint64) // Every tick (one sim-day)
	OnSeason func(tick uint64) // Every 90 ticks
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Tick:     0,
		Speed:    1.0,
		Interval: 100 * time.Millisecond,
		Running:  false,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// RunFor advances exactly n ticks with no pacing, for batch runs.
func (e *Engine) RunFor(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	if e.OnDay != nil {
		e.OnDay(e.Tick)
	}

	if e.Tick%DaysPerSeason == 0 && e.OnSeason != nil {
		e.OnSeason(e.Tick)
	}
}

// SimTime returns a human-readable simulation time string from a tick number.
func SimTime(tick uint64) string {
	days := tick%DaysPerSeason + 1
	seasons := tick / DaysPerSeason
	season := seasons % 4
	years := seasons/4 + 1

	seasonNames := [4]string{"Spring", "Summer", "Autumn", "Winter"}

	return fmt.Sprintf("%s Day %d, Year %d", seasonNames[season], days, years)
}
