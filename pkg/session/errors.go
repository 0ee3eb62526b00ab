package session

// PreconditionError reports a user-facing failure detected before any work
// begins: nothing was selected, or the selection is not a mesh. It is the
// only fatal error class; every geometry-induced anomaly after validation
// degrades to a warning on the report instead.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Precondition failure reasons.
const (
	ReasonNoSelection = "select a mesh object"
	ReasonNotMesh     = "selected object is not a mesh"
)
