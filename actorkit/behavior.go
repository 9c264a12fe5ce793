package actorkit

// Behavior is the user-defined object a Cell drives. Receive is the only
// required method; the remaining lifecycle hooks are optional and are
// invoked only if the concrete behavior also implements the matching
// interface below. This mirrors the teacher's Initialiser/Terminator
// pattern in actor.go, generalized to a richer restart/termination
// lifecycle.
type Behavior interface {
	// Receive handles one ordinary payload. ctx is valid only for the
	// duration of this call.
	Receive(payload interface{}, ctx *Context)
}

// Starter is implemented by behaviors that need setup before the first
// message is processed. Default: no-op.
type Starter interface {
	OnStart(ctx *Context)
}

// Stopper is implemented by behaviors that need cleanup when their cell is
// destroyed. Default: no-op.
type Stopper interface {
	OnStop()
}

// PreRestarter is implemented by behaviors wanting to run custom logic
// before a restart replaces the behavior instance. Default: behaves like
// OnStop.
type PreRestarter interface {
	OnPreRestart(ctx *Context)
}

// PostRestarter is implemented by behaviors wanting to run custom logic
// after a restart installs a fresh behavior instance. Default: behaves
// like OnStart.
type PostRestarter interface {
	OnPostRestart(ctx *Context)
}

// TerminationWatcher is implemented by behaviors that want to observe a
// monitored actor's death.
type TerminationWatcher interface {
	OnTermination(ctx *Context)
}

// Props is the immutable factory that produces fresh Behavior instances: one
// at cell creation, and one more per restart. A cell keeps its current
// behavior instance alongside the Props that produced it. Corresponds to
// the original Rust implementation's props.rs.
type Props struct {
	New func() Behavior
}

// PropsFromFunc builds a Props from a plain factory function. This is the
// common case; construct Props directly when a behavior needs to capture
// per-spawn configuration.
func PropsFromFunc(factory func() Behavior) Props {
	return Props{New: factory}
}

func (p Props) fresh() Behavior {
	return p.New()
}
