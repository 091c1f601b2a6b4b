package lang

// Env is a lexical environment.  Environments other than the GlobalEnv are
// immutable: Extend returns a new environment and never modifies its
// receiver.
type Env interface {
	// Lookup returns the value bound to name.  Lookup returns false if name
	// is unbound.
	Lookup(name string) (Value, bool)
	// Extend returns a child environment binding name to v.
	Extend(name string, v Value) Env
}

// extendEnv is one link in a persistent environment chain.
type extendEnv struct {
	parent Env
	name   string
	value  Value
}

var _ Env = (*extendEnv)(nil)

// Extend returns a new environment that binds name to v in the scope of
// parent.
func Extend(parent Env, name string, v Value) Env {
	return &extendEnv{
		parent: parent,
		name:   name,
		value:  v,
	}
}

// Lookup implements Env.
func (env *extendEnv) Lookup(name string) (Value, bool) {
	var e Env = env
	for {
		link, ok := e.(*extendEnv)
		if !ok {
			break
		}
		if link.name == name {
			return link.value, true
		}
		e = link.parent
	}
	if e == nil {
		return Null(), false
	}
	return e.Lookup(name)
}

// Extend implements Env.
func (env *extendEnv) Extend(name string, v Value) Env {
	return Extend(env, name, v)
}

type binding struct {
	name  string
	value Value
}

// GlobalEnv is the root environment holding top-level definitions.  It is
// the only mutable environment and it only grows: Install may shadow an
// earlier binding but nothing is ever removed.
type GlobalEnv struct {
	pairs []binding
	index map[string]int
}

var _ Env = (*GlobalEnv)(nil)

// NewGlobalEnv returns an empty global environment.
func NewGlobalEnv() *GlobalEnv {
	return &GlobalEnv{
		index: make(map[string]int),
	}
}

// Len returns the number of installed bindings, shadowed ones included.
func (env *GlobalEnv) Len() int {
	return len(env.pairs)
}

// Lookup implements Env.  The most recent installation of name wins.
func (env *GlobalEnv) Lookup(name string) (Value, bool) {
	i, ok := env.index[name]
	if !ok {
		return Null(), false
	}
	return env.pairs[i].value, true
}

// Extend implements Env.  The global environment itself is not modified.
func (env *GlobalEnv) Extend(name string, v Value) Env {
	return Extend(env, name, v)
}

// Install binds name to v in place.  A previous binding for name is
// shadowed.
func (env *GlobalEnv) Install(name string, v Value) {
	env.index[name] = len(env.pairs)
	env.pairs = append(env.pairs, binding{name, v})
}

// Names returns the visible names in order of their latest installation.
func (env *GlobalEnv) Names() []string {
	names := make([]string, 0, len(env.index))
	for i, b := range env.pairs {
		if env.index[b.name] == i {
			names = append(names, b.name)
		}
	}
	return names
}

// Snapshot returns an independent copy of env.  Installations into either
// copy are not visible to the other.
func (env *GlobalEnv) Snapshot() *GlobalEnv {
	cp := &GlobalEnv{
		pairs: make([]binding, len(env.pairs)),
		index: make(map[string]int, len(env.index)),
	}
	copy(cp.pairs, env.pairs)
	for k, v := range env.index {
		cp.index[k] = v
	}
	return cp
}
