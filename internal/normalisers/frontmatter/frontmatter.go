// Package frontmatter parses the optional metadata block at the top of a
// policy document.
//
// The block is delimited by "---" lines and holds "key: value" lines. The
// parse is best-effort: anything that does not look like a block leaves the
// whole text as body and reports Parsed=false.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Marker is the delimiter line of a front-matter block.
const Marker = "---"

var (
	blockPattern  = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)
	numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// FrontMatter is the outcome of parsing a document's leading block.
type FrontMatter struct {
	// Values holds the parsed key/value pairs. Never nil.
	Values map[string]any

	// Parsed is true when a block was recognised and removed from the body.
	Parsed bool
}

// Parse splits text into its front matter and body.
func Parse(text string) (FrontMatter, string) {
	empty := FrontMatter{Values: map[string]any{}}
	if !strings.HasPrefix(text, Marker) {
		return empty, text
	}

	m := blockPattern.FindStringSubmatch(text)
	if m == nil {
		return empty, text
	}

	values := make(map[string]any)
	for _, line := range strings.Split(m[1], "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		values[strings.TrimSpace(k)] = parseValue(strings.TrimSpace(v))
	}

	return FrontMatter{Values: values, Parsed: true}, m[2]
}

// parseValue converts a raw scalar into bool, int, float64, a list, or string.
func parseValue(v string) any {
	switch lower := strings.ToLower(v); {
	case lower == "true" || lower == "false":
		return lower == "true"
	case numberPattern.MatchString(v):
		if strings.Contains(v, ".") {
			f, err := strconv.ParseFloat(v, 64)
			if err == nil {
				return f
			}
		} else if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return v
	case strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]"):
		var list any
		if err := json.Unmarshal([]byte(strings.ReplaceAll(v, "'", `"`)), &list); err != nil {
			return v
		}
		return list
	default:
		return strings.Trim(strings.Trim(v, `"`), "'")
	}
}

// String returns the value of key rendered as a string, or "" when unset.
func (f FrontMatter) String(key string) string {
	v, ok := f.Values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Truthy reports whether key holds a truthy value: true, a non-zero number,
// a non-empty string or a non-empty list.
func (f FrontMatter) Truthy(key string) bool {
	switch v := f.Values[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	default:
		return false
	}
}

// Float returns key as a float64. The boolean is false when the key is
// unset or not numeric.
func (f FrontMatter) Float(key string) (float64, bool) {
	switch v := f.Values[key].(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Has reports whether key was present in the block.
func (f FrontMatter) Has(key string) bool {
	_, ok := f.Values[key]
	return ok
}
