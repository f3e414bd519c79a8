package catalog

import (
	"bytes"
	"html"
	"regexp"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	rePath   = regexp.MustCompile(`^(\s*)<path>(.*)</path>\s*$`)
	reName   = regexp.MustCompile(`^(\s*)<name>(.*)</name>\s*$`)
	reHidden = regexp.MustCompile(`^(\s*)<hidden>(.*)</hidden>\s*$`)
	reOpen   = regexp.MustCompile(`^\s*<game[\s>/]`)
	reClose  = regexp.MustCompile(`</game>\s*$`)
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// layout remembers how the file was encoded so render reproduces it.
type layout struct {
	bom         bool
	eol         string
	trailingEOL bool
}

func splitLines(data []byte) ([]string, layout) {
	var l layout
	if bytes.HasPrefix(data, utf8BOM) {
		l.bom = true
		data = data[len(utf8BOM):]
	}
	text := string(data)
	l.eol = "\n"
	if strings.Contains(text, "\r\n") {
		l.eol = "\r\n"
	}
	if text == "" {
		return nil, l
	}
	if strings.HasSuffix(text, l.eol) {
		l.trailingEOL = true
		text = strings.TrimSuffix(text, l.eol)
	}
	return strings.Split(text, l.eol), l
}

func renderLines(lines []string, l layout) []byte {
	var b bytes.Buffer
	if l.bom {
		b.Write(utf8BOM)
	}
	b.WriteString(strings.Join(lines, l.eol))
	if l.trailingEOL && len(lines) > 0 {
		b.WriteString(l.eol)
	}
	return b.Bytes()
}

func fieldValue(re *regexp.Regexp, line string) (indent, value string, ok bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], html.UnescapeString(strings.TrimSpace(m[2])), true
}

func isTrue(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}
