// Package testutil provides shared mocks for the core interfaces.
package testutil

import "time"

// MockSessionSampler implements interfaces.SessionSampler.
type MockSessionSampler struct {
	Idle    time.Duration
	OK      bool
	Samples int
}

// Sample returns the configured values.
func (m *MockSessionSampler) Sample() (time.Duration, bool) {
	m.Samples++
	return m.Idle, m.OK
}

// MockGraphicalSource implements interfaces.GraphicalSource.
type MockGraphicalSource struct {
	IdleFlag bool
	IsLinked bool
	Polls    int
}

// Poll returns the configured idle flag.
func (m *MockGraphicalSource) Poll() bool {
	m.Polls++
	return m.IdleFlag
}

// Linked returns the configured link state.
func (m *MockGraphicalSource) Linked() bool {
	return m.IsLinked
}

// MockCall records one runner invocation.
type MockCall struct {
	Command string
	Args    []string
}

// MockRunner implements interfaces.ActionRunner.
type MockRunner struct {
	Err   error
	Calls []MockCall
}

// Run records the call and returns the configured error.
func (m *MockRunner) Run(command string, args []string) error {
	m.Calls = append(m.Calls, MockCall{Command: command, Args: args})
	return m.Err
}
