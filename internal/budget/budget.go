// Package budget implements the 50/30/20 monthly budget rule.
package budget

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/finlearn/internal/locale"
)

// Rule is one bucket of the split.
type Rule struct {
	Label   string
	Percent int
	Amount  float64
}

var buckets = []struct {
	name    string
	percent int
}{
	{"Needs", 50},
	{"Wants", 30},
	{"Savings", 20},
}

// Split divides a monthly after-tax income into needs, wants and savings.
// A non-positive income yields no rules.
func Split(income float64) []Rule {
	if income <= 0 || math.IsNaN(income) || math.IsInf(income, 0) {
		return nil
	}
	rules := make([]Rule, 0, len(buckets))
	for _, b := range buckets {
		rules = append(rules, Rule{
			Label:   fmt.Sprintf("%s (%d%%)", b.name, b.percent),
			Percent: b.percent,
			Amount:  income * float64(b.percent) / 100,
		})
	}
	return rules
}

// ParseIncome reads an amount typed by a person: "$3,200.50", "3200" or " 1 500 ".
func ParseIncome(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("income is required")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid income %q", s)
	}
	return v, nil
}

// FormatAmount prints a dollar amount with the digit grouping of loc.
func FormatAmount(amount float64, loc locale.Locale) string {
	p := message.NewPrinter(language.Make(string(loc)))
	return p.Sprintf("$%.2f", amount)
}
