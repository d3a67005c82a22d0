package scan

import "fmt"

type PortState uint8

const (
	PortClosed PortState = iota
	PortOpen
)

func (s PortState) String() string {
	if s == PortOpen {
		return "Open"
	}
	return "Closed"
}

// PortResult is the outcome of one connect attempt. Values are never mutated
// after creation.
type PortResult struct {
	Port  int
	State PortState
}

func (r PortResult) IsOpen() bool {
	return r.State == PortOpen
}

// String renders the result the way it appears in the scan log.
func (r PortResult) String() string {
	return fmt.Sprintf("Port: %d  Is %s", r.Port, r.State)
}
