package render

import (
	"encoding/json"
	"io"

	"github.com/colcontools/wsman/pkg/errors"
)

// WriteJSON serializes a scene for external tools and the HTTP API.
// Output is deterministic: nodes are sorted by ID and edges follow the
// induced-edge order of the layout.
func WriteJSON(scene *Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scene); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// ReadJSON deserializes a scene previously written with WriteJSON.
func ReadJSON(r io.Reader) (*Scene, error) {
	var scene Scene
	if err := json.NewDecoder(r).Decode(&scene); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
	}
	return &scene, nil
}
