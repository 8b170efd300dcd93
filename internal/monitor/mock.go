package monitor

import "sync"

// Mock is the deterministic backend: it satisfies every capability
// interface with pre-programmed values and errors and performs no native
// calls. Business-logic packages use it to test against hardware states
// that are hard to produce on a real machine.
type Mock struct {
	mu sync.Mutex

	TemperatureValue float64
	TemperatureErr   error

	PowerValue float64
	PowerErr   error

	Fans     []FanInfo
	FanErr   error
	CountErr error

	Thermal    ThermalInfo
	ThermalErr error

	// Calls counts invocations per capability, for assertions.
	Calls map[string]int
}

// NewMock returns a Mock with no values programmed. Zero values are
// returned until the caller sets fields.
func NewMock() *Mock {
	return &Mock{Calls: make(map[string]int)}
}

func (m *Mock) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls != nil {
		m.Calls[op]++
	}
}

func (m *Mock) Temperature() (float64, error) {
	m.record("temperature")
	return m.TemperatureValue, m.TemperatureErr
}

func (m *Mock) Power() (float64, error) {
	m.record("power")
	return m.PowerValue, m.PowerErr
}

func (m *Mock) FanCount() (int, error) {
	m.record("fan_count")
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Fans), nil
}

func (m *Mock) FanInfo(index int) (FanInfo, error) {
	m.record("fan_info")
	if m.FanErr != nil {
		return FanInfo{}, m.FanErr
	}
	if index < 0 || index >= len(m.Fans) {
		return FanInfo{}, errFanIndex(index)
	}
	return m.Fans[index], nil
}

func (m *Mock) ThermalInfo() (ThermalInfo, error) {
	m.record("thermal_info")
	if m.ThermalErr != nil {
		return ThermalInfo{}, m.ThermalErr
	}
	return m.Thermal, nil
}
