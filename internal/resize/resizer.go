package resize

import (
	"fmt"
	"strings"
)

// Resizer decides whether a stepper runs its size check. AdjustSize calls
// resize when the policy requires it and forwards its result.
type Resizer interface {
	AdjustSize(resize func() (bool, error)) (bool, error)
}

// Always checks buffer sizes on every step.
type Always struct{}

func (Always) AdjustSize(resize func() (bool, error)) (bool, error) {
	return resize()
}

// Never leaves buffers alone. Callers size them with an explicit
// AdjustSize on the stepper.
type Never struct{}

func (Never) AdjustSize(func() (bool, error)) (bool, error) {
	return false, nil
}

// Initially checks once, on the first step after construction or Reset.
type Initially struct {
	initialized bool
}

func (r *Initially) AdjustSize(resize func() (bool, error)) (bool, error) {
	if r.initialized {
		return false, nil
	}
	resized, err := resize()
	if err != nil {
		return resized, err
	}
	r.initialized = true
	return resized, nil
}

// Reset makes the next AdjustSize run the check again.
func (r *Initially) Reset() {
	r.initialized = false
}

// Policy names a Resizer kind so configuration can build fresh instances.
type Policy uint8

const (
	PolicyInitially Policy = iota
	PolicyAlways
	PolicyNever
)

var policyNames = map[Policy]string{
	PolicyInitially: "initially",
	PolicyAlways:    "always",
	PolicyNever:     "never",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// NewResizer returns a fresh resizer for the policy.
func (p Policy) NewResizer() Resizer {
	switch p {
	case PolicyAlways:
		return Always{}
	case PolicyNever:
		return Never{}
	default:
		return &Initially{}
	}
}

// ParsePolicy maps a configuration name to a Policy. The empty string
// selects PolicyInitially.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "initially":
		return PolicyInitially, nil
	case "always":
		return PolicyAlways, nil
	case "never":
		return PolicyNever, nil
	}
	return 0, fmt.Errorf("unknown resize policy: %s", name)
}

// PolicyNames lists accepted policy names.
func PolicyNames() []string {
	return []string{"initially", "always", "never"}
}
