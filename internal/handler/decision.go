package handler

//go:generate enumer -type=Decision -trimprefix=Decision -transform=lower -json -text -yaml
//go:generate go run github.com/smykla-skalski/hookd/tools/enumerfix decision_enumer.go

// Decision is the outcome of a handler or of a whole chain execution.
type Decision int

const (
	// DecisionAllow permits the action. It is the zero value, so an empty
	// result and an empty chain both default to allow.
	DecisionAllow Decision = iota

	// DecisionDeny blocks the action.
	DecisionDeny

	// DecisionAsk defers the action to the user for confirmation.
	DecisionAsk

	// DecisionContinue permits the action while explicitly requesting
	// that processing continue. It is distinct from allow only for
	// merge precedence: a continue carries its reason forward.
	DecisionContinue
)

// Blocks reports whether the decision stops the action outright or
// pauses it for confirmation. History block counting uses this.
func (d Decision) Blocks() bool {
	return d == DecisionDeny || d == DecisionAsk
}
