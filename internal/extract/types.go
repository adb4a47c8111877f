package extract

// Branch labels the conditional context of a call site.
type Branch string

const (
	// BranchNone marks an unconditional call.
	BranchNone Branch = ""
	// BranchThen marks a call inside the taken arm of a conditional.
	BranchThen Branch = "then"
	// BranchOtherwise marks a call inside the else arm of a conditional.
	BranchOtherwise Branch = "otherwise"
)

// Edge is a directed call relationship between two steps. Source and
// Target are step identifiers (function names). Branch reflects the
// innermost conditional enclosing the call site.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Branch Branch `json:"branch,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// Step is one annotated unit of work: a node in a flow.
type Step struct {
	// Name is the display name, defaulting to the function identifier.
	Name string `json:"name"`
	// Identifier is the function or method name, unique within its
	// defining scope.
	Identifier string `json:"identifier"`
	// Description is free text from the step tag, possibly empty.
	Description string `json:"description,omitempty"`
	// Docstring is the function's leading docstring, if any.
	Docstring string `json:"docstring,omitempty"`
	// Calls are the detected calls to other steps, in source order.
	Calls []Edge `json:"calls,omitempty"`
}

// FlowKind distinguishes container-grouped flows from the implicit
// grouping of a file's top-level steps.
type FlowKind string

const (
	FlowClass    FlowKind = "class"
	FlowFunction FlowKind = "function"
)

// Flow is one assembled process graph: steps plus directed edges. It is
// the atomic unit handed to renderers and validators.
type Flow struct {
	Name        string   `json:"name"`
	Kind        FlowKind `json:"kind"`
	Description string   `json:"description,omitempty"`
	Steps       []Step   `json:"steps"`
	Edges       []Edge   `json:"edges"`
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a structured message produced during extraction. The
// extractor returns diagnostics alongside results instead of writing to
// a global warning stream.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
}
