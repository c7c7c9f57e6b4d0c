package rules

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// CSV renders the rules in the pattern,category file format parsed by
// NewCSVRulesFromReader
func (r Rules) CSV() string {
	var buf strings.Builder
	for _, rule := range r {
		c, ok := rule.(categoryRule)
		if !ok {
			continue
		}
		buf.WriteString(strings.Join(c.Conditions, "|"))
		buf.WriteRune(',')
		buf.WriteString(c.Category)
		buf.WriteRune('\n')
	}
	return buf.String()
}

// NewCSVRulesFromReader parses rules in CSV form, one per line: pattern,category.
// Blank lines and lines starting with '#' are skipped
func NewCSVRulesFromReader(reader io.Reader) (Rules, error) {
	var rules Rules
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.SplitN(line, ",", 2)
		if len(tokens) != 2 {
			return nil, errors.Errorf("Malformed rule on line %d: %s", lineNumber, line)
		}
		rule, err := NewCategoryRule(tokens[1], tokens[0])
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid rule on line %d", lineNumber)
		}
		rules = append(rules, rule)
	}
	return rules, scanner.Err()
}
