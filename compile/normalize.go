package compile

import (
	"regexp"
	"strings"
	"unicode"
)

var prefixRegexp = regexp.MustCompile(`(?i)^(x|data)[:\-_]`)

// Normalize maps an element, attribute or class name to its directive name:
// "x-my-dir", "data-my:dir" and "my_dir" all become "myDir".
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = prefixRegexp.ReplaceAllString(name, "")
	return camelCase(name)
}

func camelCase(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	upper := false
	for _, r := range name {
		switch r {
		case '-', ':', '_':
			upper = sb.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// kebabCase is the inverse of camelCase for the ngAttr rewrite.
func kebabCase(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var ngAttrRegexp = regexp.MustCompile(`^ngAttr[A-Z]`)

// shadowedAttr returns the attribute name an ngAttr attribute stands for.
func shadowedAttr(normalized string) (string, bool) {
	if !ngAttrRegexp.MatchString(normalized) {
		return "", false
	}
	return kebabCase(strings.ToLower(normalized[6:7]) + normalized[7:]), true
}
