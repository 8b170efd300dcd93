//go:build !darwin || !cgo

package ioreg

// systemOps on platforms without a device registry: no service ever
// matches. Tests run against fake Ops and never reach this path.
type systemOps struct{}

func (systemOps) MatchingService(string) (uint32, error) {
	return 0, nil
}

func (systemOps) Properties(uint32) (map[string]any, error) {
	return nil, nil
}

func (systemOps) Parent(uint32) (uint32, error) {
	return 0, nil
}

func (systemOps) Release(uint32) {}
