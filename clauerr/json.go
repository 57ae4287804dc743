package clauerr

import "encoding/json"

// jsonDiagnostic is the wire shape for Diagnostic: an internal struct
// keeps the public type free of json tags.
type jsonDiagnostic struct {
	Kind     string         `json:"kind"`
	Message  string         `json:"message"`
	Location SourceLocation `json:"location"`
	Context  *SourceContext `json:"context,omitempty"`
}

// MarshalJSON implements json.Marshaler, so a failed CLI invocation can
// emit a structured error instead of only a formatted string.
func (d *Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDiagnostic{
		Kind:     d.Kind.String(),
		Message:  d.Message,
		Location: d.Location,
		Context:  d.Context,
	})
}
