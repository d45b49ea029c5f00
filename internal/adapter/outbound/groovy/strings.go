package groovy

import (
	"strconv"
	"strings"
	"unicode"
)

// stringDelimiters lists Groovy string quotes, longest first.
var stringDelimiters = []struct {
	open, close  string
	interpolates bool
	escapes      bool
}{
	{`'''`, `'''`, false, true},
	{`"""`, `"""`, true, true},
	{`$/`, `/$`, true, false},
	{`'`, `'`, false, true},
	{`"`, `"`, true, true},
	{`/`, `/`, true, false},
}

// decodeString returns the value of a string literal written as raw. When
// the literal holds a placeholder, interpolated is set and value is the text
// between the quotes as written.
func decodeString(raw string) (value string, interpolated bool) {
	for _, d := range stringDelimiters {
		if !strings.HasPrefix(raw, d.open) || len(raw) < len(d.open)+len(d.close) || !strings.HasSuffix(raw, d.close) {
			continue
		}
		body := raw[len(d.open) : len(raw)-len(d.close)]
		if d.interpolates && hasPlaceholder(body) {
			return body, true
		}
		if !d.escapes {
			return strings.ReplaceAll(body, `\/`, "/"), false
		}
		return unescape(body), false
	}
	return raw, false
}

// hasPlaceholder reports whether body contains an unescaped $name or ${...}.
func hasPlaceholder(body string) bool {
	runes := []rune(body)
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '\\':
			i++
		case '$':
			if next := runes[i+1]; next == '{' || next == '_' || unicode.IsLetter(next) {
				return true
			}
		}
	}
	return false
}

func unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var out strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			out.WriteRune(r)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '\n':
		case 'u':
			end := min(i+5, len(runes))
			hex := string(runes[i+1 : end])
			code, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || len(hex) != 4 {
				out.WriteString(`\u`)
				continue
			}
			out.WriteRune(rune(code))
			i += 4
		default:
			out.WriteRune(runes[i])
		}
	}
	return out.String()
}
