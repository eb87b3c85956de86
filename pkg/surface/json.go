package surface

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals PatientView to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, view *PatientView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
