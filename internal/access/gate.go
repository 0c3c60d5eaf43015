package access

import "github.com/atinyakov/blogmanager/internal/models"

// State is a step of a screen's access check.
type State int

const (
	// Unresolved is the state before the identity is known.
	Unresolved State = iota
	// Checking is the single synchronous evaluation.
	Checking
	// Granted lets the screen render its content.
	Granted
	// Denied renders the refusal. It is never retried automatically.
	Denied
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Checking:
		return "checking"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Gate runs the access check of one screen instance.
type Gate struct {
	screen     Screen
	state      State
	needsLogin bool
}

// NewGate returns an unresolved gate for s.
func NewGate(s Screen) *Gate {
	return &Gate{screen: s}
}

// State returns the current state.
func (g *Gate) State() State { return g.state }

// NeedsLogin is true when the gate denied because no identity was present;
// the caller then sends the user to the login flow.
func (g *Gate) NeedsLogin() bool { return g.needsLogin }

// Resolve evaluates the gate once. Later calls return the terminal state
// unchanged, whatever identity they carry.
func (g *Gate) Resolve(who *models.User) State {
	if g.state != Unresolved {
		return g.state
	}
	g.state = Checking
	switch {
	case who == nil:
		g.needsLogin = true
		g.state = Denied
	case CanOpen(who, g.screen):
		g.state = Granted
	default:
		g.state = Denied
	}
	return g.state
}
