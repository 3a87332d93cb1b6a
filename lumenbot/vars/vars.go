package vars

import (
	"fmt"
	"regexp"

	cmap "github.com/orcaman/concurrent-map/v2"
)

var tokenRegexp = func() *regexp.Regexp { return nil }

func init() {
	r := regexp.MustCompile(`\{(\w+)\}`)
	tokenRegexp = func() *regexp.Regexp { return r }
}

// Parser renders status templates against the most recently supplied
// variable values. The key set is open-ended; any key may be added at
// runtime via UpdateData.
type Parser struct {
	data cmap.ConcurrentMap[string, string]
}

func NewParser() *Parser {
	return &Parser{data: cmap.New[string]()}
}

// UpdateData merges the given values into the parser's data. Keys not
// present in partial are left unchanged. Values are stored in their
// string form.
func (p *Parser) UpdateData(partial map[string]any) {
	for k, v := range partial {
		p.data.Set(k, fmt.Sprint(v))
	}
}

// Parse replaces every {token} occurrence in template with the current
// value of that token. Tokens with no known value are left in place,
// braces included. A template with no tokens is returned unchanged.
func (p *Parser) Parse(template string) string {
	return tokenRegexp().ReplaceAllStringFunc(template, func(match string) string {
		if v, ok := p.data.Get(match[1 : len(match)-1]); ok {
			return v
		}
		return match
	})
}
