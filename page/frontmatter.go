package page

import "strings"

const frontMatterSeparator = ":"

// FrontMatter is the key/value header at the top of an HTML-producing source.
type FrontMatter map[string]string

// ParseFrontMatter splits data into its header and the remaining body.
//
//	title: About
//	author: koen
//
//	<h1>{{ .title }}</h1>
//
// Empty lines inside the header are skipped. The first other line without a
// separator ends the header; it and everything after it form the body. A line
// of spaces is not empty.
func ParseFrontMatter(data string) (FrontMatter, string) {
	values := FrontMatter{}
	lines := splitLines(data)
	for i, line := range lines {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, frontMatterSeparator)
		if !ok {
			return values, strings.Join(lines[i:], "\n")
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values, ""
}

// splitLines splits on \n, \r\n and \r. A trailing terminator does not
// produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
