package reduce

// RuleKind identifies which rewrite a step performed.
type RuleKind int

const (
	RuleUnknown RuleKind = iota
	// RuleErase drops the argument of an abstraction whose body is free.
	RuleErase
	// RuleIdentity returns the argument of λx.x unchanged.
	RuleIdentity
	// RuleProject returns an outer variable that is the whole body.
	RuleProject
	// RuleSubstitute is the general copying beta step.
	RuleSubstitute
	// RuleResolve replaces a named reference with its definition.
	RuleResolve
)

func (k RuleKind) String() string {
	switch k {
	case RuleErase:
		return "Erase"
	case RuleIdentity:
		return "Identity"
	case RuleProject:
		return "Project"
	case RuleSubstitute:
		return "Substitute"
	case RuleResolve:
		return "Resolve"
	default:
		return "Unknown"
	}
}

type TraceEvent struct {
	Step uint64
	Rule RuleKind
	Name string // definition name, for RuleResolve
}

// EnableTrace records the first capacity rule applications.
func (r *Reducer) EnableTrace(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	r.traceBuf = make([]TraceEvent, 0, capacity)
	r.traceOn = true
}

func (r *Reducer) TraceSnapshot() []TraceEvent {
	if !r.traceOn {
		return nil
	}
	res := make([]TraceEvent, len(r.traceBuf))
	copy(res, r.traceBuf)
	return res
}

func (r *Reducer) recordTrace(rule RuleKind, name string) {
	idx := r.events
	r.events++
	if !r.traceOn || len(r.traceBuf) == cap(r.traceBuf) {
		return
	}
	r.traceBuf = append(r.traceBuf, TraceEvent{
		Step: idx,
		Rule: rule,
		Name: name,
	})
}
