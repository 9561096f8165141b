// Package reply decodes the JSON payload the model is instructed to answer with.
package reply

import (
	"errors"
	"fmt"
	"strings"

	"codecopilot/schema"

	"github.com/tidwall/gjson"
)

// ErrMalformedReply is returned when the model output is not a single JSON object.
var ErrMalformedReply = errors.New("malformed reply")

// FieldError reports a file entry that cannot be written because a value has
// the wrong JSON type. It is attached to the entry, not returned by Parse.
type FieldError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("reply field %q: expected %s, got %s", e.Field, e.Want, e.Got)
}

// Parse decodes raw. Only undecodable input is an error. Absent or null fields
// take their defaults and wrong-typed fields are carried as loosely as they
// can be: scalars keep their JSON text, askForInput follows gjson truthiness
// and unusable file entries carry a FieldError for the writer to report.
// When a key repeats, the last occurrence wins.
func Parse(raw string) (schema.AssistantReply, error) {
	out := schema.AssistantReply{
		Files:  []schema.FileSpec{},
		Status: schema.StatusInProgress,
	}

	if !gjson.Valid(raw) {
		return out, fmt.Errorf("%w: not valid JSON", ErrMalformedReply)
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return out, fmt.Errorf("%w: expected a JSON object, got %s", ErrMalformedReply, kind(doc))
	}

	if files := lookup(doc, "files"); truthy(files) {
		if files.IsArray() {
			for i, f := range files.Array() {
				out.Files = append(out.Files, parseFile(i, f))
			}
		} else {
			out.Files = append(out.Files, schema.FileSpec{
				Err: &FieldError{Field: "files", Want: "array", Got: kind(files)},
			})
		}
	}

	out.Message = text(lookup(doc, "message"))
	out.RunCommand = text(lookup(doc, "run_command"))
	if status := lookup(doc, "status"); present(status) {
		out.Status = schema.Status(text(status))
	}
	out.AskForInput = lookup(doc, "askForInput").Bool()

	return out, nil
}

func parseFile(i int, f gjson.Result) schema.FileSpec {
	field := fmt.Sprintf("files[%d]", i)
	if !f.IsObject() {
		return schema.FileSpec{Err: &FieldError{Field: field, Want: "object", Got: kind(f)}}
	}
	name := lookup(f, "filename")
	if name.Type != gjson.String {
		return schema.FileSpec{Err: &FieldError{Field: field + ".filename", Want: "string", Got: kind(name)}}
	}
	content := lookup(f, "content")
	if content.Type != gjson.String {
		return schema.FileSpec{Filename: name.Str, Err: &FieldError{Field: field + ".content", Want: "string", Got: kind(content)}}
	}
	return schema.FileSpec{Filename: name.Str, Content: content.Str}
}

// lookup returns the last value stored under key in obj.
func lookup(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

// text renders a field as the string the loop works with. Falsy values are
// empty, strings are unquoted and anything else keeps its JSON text.
func text(r gjson.Result) string {
	if !truthy(r) {
		return ""
	}
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}

func truthy(r gjson.Result) bool {
	switch {
	case !present(r):
		return false
	case r.Type == gjson.False:
		return false
	case r.Type == gjson.Number:
		return r.Num != 0
	case r.Type == gjson.String:
		return r.Str != ""
	case r.IsArray():
		return len(r.Array()) > 0
	case r.IsObject():
		return len(r.Map()) > 0
	}
	return true
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func kind(r gjson.Result) string {
	switch {
	case !r.Exists():
		return "missing"
	case r.Type == gjson.Null:
		return "null"
	case r.IsBool():
		return "boolean"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.String:
		return "string"
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	}
	return strings.ToLower(r.Type.String())
}
