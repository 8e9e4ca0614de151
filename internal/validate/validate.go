// Package validate checks form input against JSON schemas and reports
// per-field messages suitable for rendering next to form inputs.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldErrors maps a field name to its messages. The empty key holds
// form-level messages.
type FieldErrors map[string][]string

// Add appends msg to field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Form is a compiled schema plus friendlier messages per field.
type Form struct {
	name     string
	schema   *jsonschema.Schema
	messages map[string]string
}

// Compile builds a Form. messages overrides the library's message for a
// field; fields without an override keep the library text.
func Compile(name, schema string, messages map[string]string) (*Form, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	url := fmt.Sprintf("https://devlink.local/forms/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("form %s schema load failed: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("form %s schema compile failed: %w", name, err)
	}
	return &Form{name: name, schema: compiled, messages: messages}, nil
}

// MustCompile is Compile for package-level forms.
func MustCompile(name, schema string, messages map[string]string) *Form {
	f, err := Compile(name, schema, messages)
	if err != nil {
		panic(err)
	}
	return f
}

// Check validates input, which is any JSON-marshalable value. It returns nil
// when input is valid.
func (f *Form) Check(input any) FieldErrors {
	raw, err := json.Marshal(input)
	if err != nil {
		return FieldErrors{"": {"Invalid input"}}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return FieldErrors{"": {"Invalid input"}}
	}

	err = f.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return FieldErrors{"": {err.Error()}}
	}

	out := FieldErrors{}
	for _, leaf := range leaves(ve) {
		field := fieldName(leaf.InstanceLocation)
		msg := leaf.Message
		if m, ok := f.messages[field]; ok {
			msg = m
		}
		if !contains(out[field], msg) {
			out.Add(field, msg)
		}
	}
	for _, msgs := range out {
		sort.Strings(msgs)
	}
	return out
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// fieldName turns "/tags/0" into "tags".
func fieldName(pointer string) string {
	p := strings.TrimPrefix(pointer, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
