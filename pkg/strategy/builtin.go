package strategy

// RegisterBuiltinStrategies registers the built-in reasoning strategies
// into r: "none" and "chain_of_thought" are required by spec; "self_consistency"
// is a supplemental strategy built on the same majority-vote idea.
func RegisterBuiltinStrategies(r *Registry) {
	r.Register(NewNoneStrategy())
	r.Register(NewChainOfThoughtStrategy())
	r.Register(NewSelfConsistencyStrategy())
}

// NewDefaultRegistry returns a Registry with every built-in strategy
// already registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltinStrategies(r)
	return r
}
