package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	}
	return "unknown"
}

// Field describes the expected shape of one JSON value.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Fields   []Field // KindObject
	Elem     *Field  // KindArray
}

type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

func Obj(name string, fields ...Field) Field { return Field{Name: name, Kind: KindObject, Fields: fields} }
func Arr(name string, elem Field) Field     { return Field{Name: name, Kind: KindArray, Elem: &elem} }
func Str(name string) Field                 { return Field{Name: name, Kind: KindString} }
func Num(name string) Field                 { return Field{Name: name, Kind: KindNumber} }
func Int(name string) Field                 { return Field{Name: name, Kind: KindInteger} }
func Strs(name string) Field                { return Arr(name, Str("")) }

// Opt marks f as allowed to be absent or null.
func Opt(f Field) Field {
	f.Optional = true
	return f
}

var PayloadSchema = Obj("",
	Arr("responses", Obj("",
		Str("response_id"),
		Int("correct"),
		Int("total"),
		Num("percentage"),
		Strs("weak_topics"),
		Opt(Strs("strong_topics")),
		Strs("focus_areas"),
	)),
	Obj("collective",
		Int("correct"),
		Int("total"),
		Num("percentage"),
		Strs("weaknesses"),
		Strs("focus_areas"),
	),
)

// Decode parses raw JSON keeping numbers as json.Number, as Validate expects.
func Decode(raw string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks v against f and returns every violation found. Unknown object keys are allowed.
func (f Field) Validate(v interface{}) []Violation {
	return f.check("$", v)
}

func (f Field) check(path string, v interface{}) []Violation {
	if v == nil {
		if f.Optional {
			return nil
		}
		return []Violation{{Path: path, Message: "is required"}}
	}

	switch f.Kind {
	case KindObject:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return mismatch(path, f.Kind, v)
		}
		var out []Violation
		for _, child := range f.Fields {
			val, present := obj[child.Name]
			childPath := path + "." + child.Name
			if !present {
				if !child.Optional {
					out = append(out, Violation{Path: childPath, Message: "is required"})
				}
				continue
			}
			out = append(out, child.check(childPath, val)...)
		}
		return out

	case KindArray:
		arr, ok := v.([]interface{})
		if !ok {
			return mismatch(path, f.Kind, v)
		}
		var out []Violation
		for i, item := range arr {
			out = append(out, f.Elem.check(fmt.Sprintf("%s[%d]", path, i), item)...)
		}
		return out

	case KindString:
		if _, ok := v.(string); !ok {
			return mismatch(path, f.Kind, v)
		}

	case KindNumber, KindInteger:
		n, ok := v.(json.Number)
		if !ok {
			return mismatch(path, f.Kind, v)
		}
		if f.Kind == KindInteger {
			if _, err := n.Int64(); err != nil {
				return []Violation{{Path: path, Message: fmt.Sprintf("expected integer, got %s", n)}}
			}
		} else if _, err := n.Float64(); err != nil {
			return []Violation{{Path: path, Message: fmt.Sprintf("expected number, got %s", n)}}
		}
	}
	return nil
}

func mismatch(path string, want Kind, v interface{}) []Violation {
	return []Violation{{Path: path, Message: fmt.Sprintf("expected %s, got %s", want, describe(v))}}
}

func describe(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
