package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/pvminh/tally/expense"
)

// Rule can match an expense record and rewrite parts of it
type Rule interface {
	Match(expense.Expense) bool
	Apply(*expense.Expense)
}

// Rules applies each rule in order. Later rules win on conflict
type Rules []Rule

// Apply runs every matching rule against the expense
func (r Rules) Apply(e *expense.Expense) {
	for _, rule := range r {
		if rule.Match(*e) {
			rule.Apply(e)
		}
	}
}

func (r Rules) String() string {
	var buf strings.Builder
	for _, rule := range r {
		buf.WriteString(fmt.Sprintf("%s\n", rule))
	}
	return buf.String()
}

// categoryRule assigns a category to expenses whose description matches a pattern
type categoryRule struct {
	Conditions []string // used for formatting purposes
	matchLine  *regexp.Regexp

	Category string
}

// NewCategoryRule builds a rule assigning 'category' to expenses matching any of 'conditions'.
// Conditions are case-insensitive regular expressions tested against the description
func NewCategoryRule(category string, conditions ...string) (Rule, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New("Invalid rule: No category selected")
	}
	cleaned := make([]string, 0, len(conditions))
	for _, c := range conditions {
		c = strings.TrimSpace(c)
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("Invalid rule: No conditions given")
	}
	pattern, err := regexp.Compile("(?i)" + strings.Join(cleaned, "|"))
	if err != nil {
		return nil, err
	}
	return categoryRule{
		Conditions: cleaned,
		matchLine:  pattern,
		Category:   category,
	}, nil
}

func (c categoryRule) Match(e expense.Expense) bool {
	return c.matchLine.MatchString(e.Description)
}

func (c categoryRule) Apply(e *expense.Expense) {
	// only fill in missing categories, backend-assigned ones are authoritative
	if e.Category == "" {
		e.Category = c.Category
	}
}

func (c categoryRule) String() string {
	return fmt.Sprintf("%s %s", strings.Join(c.Conditions, "|"), c.Category)
}
