package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE []byte

// LoadError is a definition file that could not be loaded.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// LoadFile reads a definition, choosing the decoder by extension: .yaml and
// .yml for YAML, .cue for CUE.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path, bytes.NewReader(data))
	case ".cue":
		return LoadCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Message: "unsupported definition format, want .yaml, .yml or .cue"}
	}
}

// LoadYAML decodes a YAML definition. Unknown keys are rejected.
func LoadYAML(name string, r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: name, Message: "empty definition"}
		}
		return nil, &LoadError{Path: name, Message: err.Error()}
	}
	return &def, nil
}

// LoadCUE evaluates a CUE definition and checks it against the #Report
// schema before decoding.
func LoadCUE(name string, data []byte) (*Definition, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile report schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(name, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Report")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(name, err)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(name, err)
	}

	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, &LoadError{Path: name, Message: err.Error()}
	}
	return &def, nil
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(name string, err error) *LoadError {
	le := &LoadError{Path: name, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
