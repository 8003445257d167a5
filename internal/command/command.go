// Package command implements the operator text commands that drive the
// arbiter's pause surface.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrTooManyArgs    = errors.New("command: too many arguments")
	ErrDuplicateName  = errors.New("command: duplicate name")
	ErrEmpty          = errors.New("command: empty input")
)

// Controller is the arbiter surface the default commands act on.
// *core.Arbiter satisfies it.
type Controller interface {
	RequestPause() error
	RequestResume() error
	Paused() bool
	CancelEverything()
}

// Command is one operator command. Names[0] is the label shown in help;
// the rest are aliases.
type Command struct {
	Names   []string
	Short   string
	MaxArgs int
	Exec    func(args []string) (string, error)
}

// Manager resolves labels to commands, ignoring case.
type Manager struct {
	commands []*Command
	byName   map[string]*Command
	log      zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l.With().Str("component", "command").Logger()
	}
}

// NewManager creates an empty Manager with only the help command.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		byName: make(map[string]*Command),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.mustRegister(&Command{
		Names: []string{"help"},
		Short: "Lists the available commands",
		Exec:  func([]string) (string, error) { return m.help(), nil },
	})
	return m
}

// NewDefaultManager creates a Manager with the pause, resume, paused and
// cancel commands bound to ctrl.
func NewDefaultManager(ctrl Controller, opts ...Option) *Manager {
	m := NewManager(opts...)
	for _, c := range Defaults(ctrl) {
		m.mustRegister(c)
	}
	return m
}

// Register adds c. Every name must be unused.
func (m *Manager) Register(c *Command) error {
	if c == nil || len(c.Names) == 0 || c.Exec == nil {
		return fmt.Errorf("command: incomplete command")
	}
	for _, name := range c.Names {
		if _, ok := m.byName[strings.ToLower(name)]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	for _, name := range c.Names {
		m.byName[strings.ToLower(name)] = c
	}
	m.commands = append(m.commands, c)
	return nil
}

func (m *Manager) mustRegister(c *Command) {
	if err := m.Register(c); err != nil {
		panic(err)
	}
}

// Lookup finds a command by any of its names.
func (m *Manager) Lookup(label string) (*Command, bool) {
	c, ok := m.byName[strings.ToLower(label)]
	return c, ok
}

// Execute parses and runs one line. Errors from the command are returned
// unchanged so callers can match them with errors.Is.
func (m *Manager) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ErrEmpty
	}
	label, args := fields[0], fields[1:]
	c, ok := m.Lookup(label)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, label)
	}
	if len(args) > c.MaxArgs {
		return "", fmt.Errorf("%w: %s takes at most %d", ErrTooManyArgs, c.Names[0], c.MaxArgs)
	}

	out, err := c.Exec(args)
	if err != nil {
		m.log.Debug().Err(err).Str("command", c.Names[0]).Msg("command failed")
		return "", err
	}
	m.log.Info().Str("command", c.Names[0]).Msg(out)
	return out, nil
}

// Commands returns the registered commands sorted by label.
func (m *Manager) Commands() []*Command {
	out := append([]*Command(nil), m.commands...)
	sort.Slice(out, func(i, j int) bool { return out[i].Names[0] < out[j].Names[0] })
	return out
}

func (m *Manager) help() string {
	var b strings.Builder
	for i, c := range m.Commands() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(c.Names, "/"))
		b.WriteString(" - ")
		b.WriteString(c.Short)
	}
	return b.String()
}
