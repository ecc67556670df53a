package util

import (
	"fmt"
	"math"
	"sync"
	"time"
)

type TimerState struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

func (t *TimerState) Name() string {
	return t.name
}

func (t *TimerState) Count() int64 {
	return t.executionCount
}

func (t *TimerState) Total() float64 {
	return t.totalDuration
}

func (t *TimerState) averageDuration() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t *TimerState) String() string {
	return fmt.Sprintf("%s n: %d, total: %.2fms, avg: %.2fms, min: %.2fms, max: %.2fms", t.name, t.executionCount, t.totalDuration, t.averageDuration(), t.minDuration, t.maxDuration)
}

// Timer collects durations of named stages. Stages may be timed from
// several goroutines at once.
type Timer struct {
	mu         sync.Mutex
	states     map[string]*TimerState
	timerNames []string
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
	}
}

// GetState returns a copy of the named stage, or false if it never ran.
func (t *Timer) GetState(name string) (TimerState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[name]
	if !ok {
		return TimerState{}, false
	}
	return *state, true
}

// States returns copies of all stages in the order they were first started.
func (t *Timer) States() []TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]TimerState, 0, len(t.timerNames))
	for _, name := range t.timerNames {
		result = append(result, *t.states[name])
	}
	return result
}

func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, state := range t.states {
		state.lastDuration = 0
		state.totalDuration = 0
		state.executionCount = 0
		state.minDuration = math.MaxInt64
		state.maxDuration = math.MinInt64
	}
}

func (t *Timer) String() string {
	var str string
	for _, state := range t.States() {
		str += state.String() + "\n"
	}
	return str
}

// Start begins timing name. The returned func stops the measurement and
// returns the elapsed milliseconds.
func (t *Timer) Start(name string) func() float64 {
	t.mu.Lock()
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			name:        name,
			minDuration: math.MaxInt64,
			maxDuration: math.MinInt64,
		}
		t.states[name] = state
	}
	t.mu.Unlock()
	start := time.Now()
	return func() float64 {
		durationInMS := float64(time.Since(start).Microseconds()) / 1000.0
		t.mu.Lock()
		defer t.mu.Unlock()
		state.lastDuration = durationInMS
		state.totalDuration += durationInMS
		state.executionCount++
		if durationInMS < state.minDuration {
			state.minDuration = durationInMS
		}
		if durationInMS > state.maxDuration {
			state.maxDuration = durationInMS
		}
		return durationInMS
	}
}
