package eval

import (
	"errors"
	"fmt"
	"sort"

	"src.cmdl.sh/pkg/eval/vals"
	"src.cmdl.sh/pkg/token"
)

// Errors returned when registering commands.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrNegativeArity = errors.New("negative arity")
	ErrDuplicateName = errors.New("name already registered")
)

// CommandFunc implements a command. The arguments have had their subcommands
// folded, so each is an identifier or a literal.
type CommandFunc func(fm *Frame, args []token.Token) error

// SubcommandFunc implements a subcommand, returning the value the subcommand
// is replaced with.
type SubcommandFunc func(fm *Frame, args []token.Token) (vals.Value, error)

// Command is a registered command.
type Command struct {
	Name    string
	MaxArgs int
	Fn      CommandFunc
}

// Subcommand is a registered subcommand.
type Subcommand struct {
	Name    string
	MaxArgs int
	Fn      SubcommandFunc
}

// Registry holds the commands and subcommands known to the lexer and the
// interpreter. A name is registered in at most one of the two collections.
type Registry struct {
	commands    map[string]*Command
	subcommands map[string]*Subcommand
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{map[string]*Command{}, map[string]*Subcommand{}}
}

// AddCommand registers a command.
func (r *Registry) AddCommand(name string, maxArgs int, fn CommandFunc) error {
	if err := r.check(name, maxArgs); err != nil {
		return err
	}
	r.commands[name] = &Command{name, maxArgs, fn}
	return nil
}

// AddSubcommand registers a subcommand.
func (r *Registry) AddSubcommand(name string, maxArgs int, fn SubcommandFunc) error {
	if err := r.check(name, maxArgs); err != nil {
		return err
	}
	r.subcommands[name] = &Subcommand{name, maxArgs, fn}
	return nil
}

func (r *Registry) check(name string, maxArgs int) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if maxArgs < 0 {
		return fmt.Errorf("%w: %s takes %d arguments", ErrNegativeArity, name, maxArgs)
	}
	if r.commands[name] != nil || r.subcommands[name] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Classify implements [parse.Keywords].
func (r *Registry) Classify(name string) (token.Kind, int) {
	if c := r.commands[name]; c != nil {
		return token.Command, c.MaxArgs
	}
	if s := r.subcommands[name]; s != nil {
		return token.Subcommand, s.MaxArgs
	}
	return token.Identifier, 0
}

// Command returns the command with the given name, or nil.
func (r *Registry) Command(name string) *Command { return r.commands[name] }

// Subcommand returns the subcommand with the given name, or nil.
func (r *Registry) Subcommand(name string) *Subcommand { return r.subcommands[name] }

// Names returns the names of all commands and subcommands, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.subcommands))
	for name := range r.commands {
		names = append(names, name)
	}
	for name := range r.subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
