package expr

import (
	"strconv"
	"strings"

	"github.com/signalnine/ruleforge/value"
)

// parse recognizes one expression string in the order §4.2 specifies:
// indexing, then function-call-or-property-chain (a string containing
// `(` falls through to the property-chain check below when it isn't a
// clean, fully-parenthesized call — this is what makes `top_card(z).color`
// resolve as a property chain over a call rather than a malformed call),
// then property chain, then literals, then identifier.
func parse(s string) Node {
	s = strings.TrimSpace(s)

	if node, ok := tryParseIndex(s); ok {
		return node
	}

	if strings.Contains(s, "(") {
		dotPos := strings.IndexByte(s, '.')
		parenPos := strings.IndexByte(s, '(')
		if dotPos != -1 && dotPos < parenPos {
			return parseProperty(s)
		}
		if node, ok := tryParseCall(s); ok {
			return node
		}
		// Falls through: a `(` is present but the expression isn't a
		// single well-formed call (e.g. `top_card(zone).color`) — the
		// property-chain check below picks it up.
	}

	if strings.Contains(s, ".") && !strings.HasPrefix(s, "'") && !strings.HasPrefix(s, "\"") {
		if !looksNumeric(s) {
			return parseProperty(s)
		}
	}

	return parseAtom(s)
}

// tryParseIndex implements rule 1: split at the first `[` and the last
// `]`, but only when nothing before the `[` contains a `(` (so
// `f(a)[0]`-shaped text is left for the call/property rules instead).
func tryParseIndex(s string) (Node, bool) {
	if strings.HasPrefix(s, "'") || strings.HasPrefix(s, "\"") {
		return nil, false
	}
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.Contains(s, "]") {
		return nil, false
	}
	if strings.Contains(s[:open], "(") {
		return nil, false
	}
	closeIdx := strings.LastIndexByte(s, ']')
	if closeIdx <= open {
		return nil, false
	}
	objExpr := s[:open]
	keyExpr := s[open+1 : closeIdx]
	return &Index{Obj: parse(objExpr), Key: parse(keyExpr)}, true
}

// tryParseCall implements rule 2: the function name is everything before
// the first top-level `(`, and the whole trimmed string must end at the
// matching `)` for this to count as a call rather than a call followed by
// trailing text (a property chain over a call result).
func tryParseCall(s string) (Node, bool) {
	depth := 0
	funcNameEnd := -1
	funcStart := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				funcNameEnd = i
				funcStart = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i != len(s)-1 {
					return nil, false
				}
				funcName := strings.TrimSpace(s[:funcNameEnd])
				argsStr := s[funcStart+1 : i]
				argStrs := splitArgs(argsStr)
				args := make([]Node, len(argStrs))
				for j, a := range argStrs {
					args[j] = parse(a)
				}
				return &Call{Func: funcName, Args: args}, true
			}
		}
	}
	return nil, false
}

// splitArgs splits a top-level-comma-separated argument list, respecting
// nested `()`/`[]` (§4.2 rule 2 "split arguments at top-level commas
// respecting () and [] nesting").
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, s[start:])
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args
}

// parseProperty implements rule 3: split on the first `.`, the head
// becomes a recursively parsed base expression (so `f(x).a.b` and
// `entity.owner.name` both work), the rest is a plain dotted path of
// attribute/key names.
func parseProperty(s string) Node {
	parts := strings.SplitN(s, ".", 2)
	base := parse(parts[0])
	if len(parts) == 1 {
		return base
	}
	return &Property{Base: base, Path: strings.Split(parts[1], ".")}
}

// parseAtom implements rules 4-5: literals, then bare identifier lookup.
func parseAtom(s string) Node {
	switch s {
	case "null":
		return &Literal{Value: value.Null{}}
	case "true":
		return &Literal{Value: value.Bool(true)}
	case "false":
		return &Literal{Value: value.Bool(false)}
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return &Literal{Value: value.Str(s[1 : len(s)-1])}
		}
	}

	if looksNumeric(s) {
		if strings.Contains(s, ".") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &Literal{Value: value.Float(f)}
			}
		} else if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &Literal{Value: value.Int(i)}
		}
	}

	return &Ident{Name: s}
}

// looksNumeric reports whether s is an optionally-signed decimal integer
// or float literal, used to keep bare numbers (§4.2 rule 4, "integers,
// floats distinguished by a `.`") from being mistaken for a property
// chain by rule 3 just because they contain a `.`.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i == len(s) {
		return false
	}
	sawDigit := false
	sawDot := false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			sawDigit = true
		case s[i] == '.' && !sawDot:
			sawDot = true
		default:
			return false
		}
	}
	return sawDigit
}
