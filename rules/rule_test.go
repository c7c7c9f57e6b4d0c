package rules

import (
	"strings"
	"testing"

	"github.com/pvminh/tally/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryRule(t *testing.T) {
	for _, tc := range []struct {
		description string
		category    string
		conditions  []string
		err         string
	}{
		{
			description: "valid rule",
			category:    "Cloud",
			conditions:  []string{"aws", "gcp"},
		},
		{
			description: "missing category",
			category:    "  ",
			conditions:  []string{"aws"},
			err:         "Invalid rule: No category selected",
		},
		{
			description: "no conditions",
			category:    "Cloud",
			conditions:  []string{"", "  "},
			err:         "Invalid rule: No conditions given",
		},
		{
			description: "bad pattern",
			category:    "Cloud",
			conditions:  []string{"("},
			err:         "error parsing regexp: missing closing ): `(?i)(`",
		},
	} {
		t.Run(tc.description, func(t *testing.T) {
			rule, err := NewCategoryRule(tc.category, tc.conditions...)
			if tc.err == "" {
				require.NoError(t, err)
				assert.NotNil(t, rule)
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.err, err.Error())
			}
		})
	}
}

func TestCategoryRuleMatch(t *testing.T) {
	rule, err := NewCategoryRule("Cloud", "aws", "digital ?ocean")
	require.NoError(t, err)

	assert.True(t, rule.Match(expense.Expense{Description: "Thanh toan AWS thang 1"}), "match is case-insensitive")
	assert.True(t, rule.Match(expense.Expense{Description: "DigitalOcean droplet"}))
	assert.False(t, rule.Match(expense.Expense{Description: "Tien thue van phong"}))
}

func TestCategoryRuleApply(t *testing.T) {
	rule, err := NewCategoryRule("Cloud", "aws")
	require.NoError(t, err)

	t.Run("fills missing category", func(t *testing.T) {
		e := expense.Expense{Description: "AWS invoice"}
		rule.Apply(&e)
		assert.Equal(t, "Cloud", e.Category)
	})

	t.Run("existing category wins", func(t *testing.T) {
		e := expense.Expense{Description: "AWS invoice", Category: "Software"}
		rule.Apply(&e)
		assert.Equal(t, "Software", e.Category)
	})
}

func TestRulesApplyOrder(t *testing.T) {
	first, err := NewCategoryRule("Cloud", "aws")
	require.NoError(t, err)
	second, err := NewCategoryRule("Infra", "aws")
	require.NoError(t, err)
	rules := Rules{first, second}

	e := expense.Expense{Description: "aws bill"}
	rules.Apply(&e)
	assert.Equal(t, "Cloud", e.Category, "first matching rule fills the category")
}

func TestNewCSVRulesFromReader(t *testing.T) {
	t.Run("parses patterns and categories", func(t *testing.T) {
		input := strings.NewReader(`
# cloud providers
aws|gcp,Cloud

grab|be taxi,Đi lại
`)
		rules, err := NewCSVRulesFromReader(input)
		require.NoError(t, err)
		require.Len(t, rules, 2)

		e := expense.Expense{Description: "Grab ve nha"}
		rules.Apply(&e)
		assert.Equal(t, "Đi lại", e.Category)
	})

	t.Run("malformed line reports its number", func(t *testing.T) {
		_, err := NewCSVRulesFromReader(strings.NewReader("aws,Cloud\nno-category-here\n"))
		require.Error(t, err)
		assert.Equal(t, "Malformed rule on line 2: no-category-here", err.Error())
	})

	t.Run("invalid pattern reports its number", func(t *testing.T) {
		_, err := NewCSVRulesFromReader(strings.NewReader("(,Cloud\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid rule on line 1")
	})

	t.Run("empty input yields no rules", func(t *testing.T) {
		rules, err := NewCSVRulesFromReader(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, rules)
	})
}
