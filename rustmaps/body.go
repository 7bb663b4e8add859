package rustmaps

import (
	"encoding/json"
	"strings"
)

// BodyKind tells which variant of a Body is populated.
type BodyKind int

const (
	// BodyText holds the raw response text.
	BodyText BodyKind = iota
	// BodyObject holds a decoded JSON object.
	BodyObject
	// BodyArray holds a decoded JSON array.
	BodyArray
)

// String returns the string representation of a BodyKind
func (k BodyKind) String() string {
	switch k {
	case BodyObject:
		return "object"
	case BodyArray:
		return "array"
	default:
		return "text"
	}
}

// Body is a decoded response body. Exactly one of Object, Array or Text is
// meaningful, as indicated by Kind.
type Body struct {
	Kind   BodyKind
	Object map[string]any
	Array  []any
	Text   string
}

// ObjectBody wraps a JSON object.
func ObjectBody(obj map[string]any) Body {
	return Body{Kind: BodyObject, Object: obj}
}

// ArrayBody wraps a JSON array.
func ArrayBody(arr []any) Body {
	return Body{Kind: BodyArray, Array: arr}
}

// TextBody wraps raw text.
func TextBody(text string) Body {
	return Body{Kind: BodyText, Text: text}
}

// Field returns the value stored under key when the body is an object.
func (b Body) Field(key string) (any, bool) {
	if b.Kind != BodyObject {
		return nil, false
	}
	v, ok := b.Object[key]
	return v, ok
}

// Value returns the populated variant as a plain Go value.
func (b Body) Value() any {
	switch b.Kind {
	case BodyObject:
		return b.Object
	case BodyArray:
		return b.Array
	default:
		return b.Text
	}
}

// decodeBody turns a raw response into a Body. JSON is only attempted when
// the content type says so; anything that is not a JSON object or array
// falls back to the raw text. It never fails.
func decodeBody(contentType string, raw []byte) Body {
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			switch val := v.(type) {
			case map[string]any:
				return ObjectBody(val)
			case []any:
				return ArrayBody(val)
			}
		}
	}
	return TextBody(string(raw))
}
