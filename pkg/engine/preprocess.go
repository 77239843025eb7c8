package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source before it reaches zygomys:
//
//  1. ; line comments become // comments.
//  2. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols that could clash with user variables.
//  3. Kebab-case identifiers become underscore form (translate-x ->
//     translate_x); zygomys reads a hyphen as subtraction.
//
// String literals and comment bodies pass through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j
		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			out = append(out, '/', '/')
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opened at b[start].
// An unterminated literal runs to the end of input.
func skipQuoted(b []byte, start int, quote byte, escapes bool) int {
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i++
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
