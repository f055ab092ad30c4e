package store

import (
	"fmt"
	"sort"
	"strings"
)

// ExpandError describes a failed template expansion. The SQL text and the
// parameter map are required to correspond bijectively: every placeholder
// must resolve in the map and every map entry must be referenced by the text.
type ExpandError struct {
	Code string
	Name string // offending placeholder or parameter name, if any
}

// Expansion error codes.
const (
	ErrCodeUnboundPlaceholder = "UNBOUND_PLACEHOLDER"
	ErrCodeUnusedParameter    = "UNUSED_PARAMETER"
	ErrCodeUnterminated       = "UNTERMINATED_PLACEHOLDER"
)

func (e *ExpandError) Error() string {
	switch e.Code {
	case ErrCodeUnboundPlaceholder:
		return fmt.Sprintf("%s: placeholder %q has no bound parameter", e.Code, e.Name)
	case ErrCodeUnusedParameter:
		return fmt.Sprintf("%s: parameter %q does not appear in the SQL text", e.Code, e.Name)
	case ErrCodeUnterminated:
		return fmt.Sprintf("%s: unterminated #{...} placeholder", e.Code)
	}
	return e.Code
}

// ExpandTemplate rewrites a #{name} SQL template into driver-ready SQL with
// positional ? placeholders and the ordered argument slice. Placeholders are
// substituted in text order, which matches the compiler's allocation order.
//
// A parameter holding a []any value (a membership list from IN/NOT IN) is
// expanded into a parenthesized placeholder list with one argument per
// element. An empty list expands to (NULL), which matches no rows under IN
// and all rows under NOT IN with non-null operands.
func ExpandTemplate(sqlText string, params map[string]any) (string, []any, error) {
	var out strings.Builder
	var args []any
	used := make(map[string]bool, len(params))

	rest := sqlText
	for {
		start := strings.Index(rest, "#{")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}")
		if end < 0 {
			return "", nil, &ExpandError{Code: ErrCodeUnterminated}
		}
		name := rest[:end]
		rest = rest[end+1:]

		value, ok := params[name]
		if !ok {
			return "", nil, &ExpandError{Code: ErrCodeUnboundPlaceholder, Name: name}
		}
		used[name] = true

		if list, isList := value.([]any); isList {
			if len(list) == 0 {
				out.WriteString("(NULL)")
				continue
			}
			out.WriteString("(")
			for i, elem := range list {
				if i > 0 {
					out.WriteString(", ")
				}
				out.WriteString("?")
				args = append(args, elem)
			}
			out.WriteString(")")
			continue
		}

		out.WriteString("?")
		args = append(args, value)
	}

	if len(used) != len(params) {
		unused := make([]string, 0, len(params)-len(used))
		for name := range params {
			if !used[name] {
				unused = append(unused, name)
			}
		}
		sort.Strings(unused)
		return "", nil, &ExpandError{Code: ErrCodeUnusedParameter, Name: unused[0]}
	}

	return out.String(), args, nil
}
