package primitives

import "fmt"

// CommandType discriminates what the winning process asked for this tick.
type CommandType int

const (
	// CommandNone means the process has no opinion this tick.
	CommandNone CommandType = iota
	// CommandSetTarget asks the look synchronizer to steer toward Target.
	CommandSetTarget
	// CommandRequestPause asks the downstream movement layer to hold off new commitments.
	CommandRequestPause
)

func (t CommandType) String() string {
	switch t {
	case CommandNone:
		return "none"
	case CommandSetTarget:
		return "set_target"
	case CommandRequestPause:
		return "request_pause"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Command is the per-tick output of the winning process.
//
// Commands are values; the Target pointer is never shared with the producer
// (constructors copy the rotation), so a Command is safe to keep after the tick.
type Command struct {
	Type   CommandType `json:"type" yaml:"type"`
	Target *Rotation   `json:"target,omitempty" yaml:"target,omitempty"`
	Force  bool        `json:"force,omitempty" yaml:"force,omitempty"`
}

// NoCommand returns a CommandNone.
func NoCommand() Command {
	return Command{Type: CommandNone}
}

// SetTarget returns a CommandSetTarget steering toward r.
func SetTarget(r Rotation, force bool) Command {
	target := r
	return Command{Type: CommandSetTarget, Target: &target, Force: force}
}

// RequestPause returns a CommandRequestPause.
func RequestPause() Command {
	return Command{Type: CommandRequestPause}
}

// HasTarget reports whether the command carries an orientation payload.
func (c Command) HasTarget() bool {
	return c.Target != nil
}

func (c Command) String() string {
	if c.Target == nil {
		return c.Type.String()
	}
	if c.Force {
		return fmt.Sprintf("%s%s!", c.Type, c.Target)
	}
	return fmt.Sprintf("%s%s", c.Type, c.Target)
}
