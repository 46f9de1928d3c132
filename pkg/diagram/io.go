package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// Marshal serializes a diagram as indented JSON.
func Marshal(d *Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal parses a diagram from JSON. Missing arrays decode as empty.
func Unmarshal(data []byte) (*Diagram, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a diagram from r. Read does not close r.
func Read(r io.Reader) (*Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode diagram")
	}
	for i, n := range d.Nodes {
		if n == nil {
			return nil, ferrors.New(ferrors.ErrCodeInvalidDiagram, "node %d is null", i)
		}
	}
	if d.Nodes == nil {
		d.Nodes = []*Node{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	return &d, nil
}

// ReadFile loads a diagram snapshot from path.
func ReadFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "diagram file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

// WriteFile writes d to path as indented JSON.
func WriteFile(d *Diagram, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
