package facereading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoJSON means the reply contains no "{...}" span at all.
	ErrNoJSON = errors.New("no JSON object found in reply")
	// ErrInvalidJSON means a "{...}" span was found but does not parse.
	ErrInvalidJSON = errors.New("reply JSON does not parse")
)

// jsonObjectPattern spans from the first '{' to the last '}' of the reply.
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractReport locates the JSON object in a model reply and returns it
// compacted but otherwise untouched. The widest "{...}" span is tried first;
// when prose after the object makes it unparseable, the first balanced
// object is tried instead. The object's shape is not validated.
func ExtractReport(content string) (json.RawMessage, error) {
	candidate := jsonObjectPattern.FindString(content)
	if candidate == "" {
		return nil, ErrNoJSON
	}

	raw, err := compactJSON(candidate)
	if err == nil {
		return raw, nil
	}

	if balanced := balancedObject(content); balanced != "" && balanced != candidate {
		if raw, balancedErr := compactJSON(balanced); balancedErr == nil {
			return raw, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}

func compactJSON(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// balancedObject returns the first brace-balanced object starting at the
// first '{', ignoring braces inside JSON strings. Empty when unbalanced.
func balancedObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// DecodeReport decodes raw into a Report on a best-effort basis. Fields with
// unexpected types stay empty and the first such problem is returned along
// with the partially filled report.
func DecodeReport(raw json.RawMessage) (*Report, error) {
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return &r, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}
