package model

// Mode is the binary intervention decision emitted once per trigger.
type Mode int

const (
	// ModeNormal keeps the session unchanged; it is also the safe
	// default every degraded cycle falls back to.
	ModeNormal Mode = iota

	// ModeReduce asks the downstream actuator to reduce load.
	ModeReduce
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if m == ModeReduce {
		return "reduce"
	}
	return "normal"
}
