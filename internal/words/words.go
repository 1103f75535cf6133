// Package words spells monetary amounts for printed documents.
package words

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/money"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

type group struct {
	size int64
	name string
}

// Indian numbering groups by crore, lakh and thousand.
var indianGroups = []group{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
}

var westernGroups = []group{
	{1000000000, "Billion"},
	{1000000, "Million"},
	{1000, "Thousand"},
}

// Spell renders amount as words, e.g. "One Thousand Rupees and Fifty Paise
// only" for INR or "Twelve USD and Five Cents only" for other currencies.
func Spell(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if amount.IsZero() {
		return "Zero"
	}
	places := int32(2)
	if policy, err := money.PolicyForCurrency(code); err == nil {
		places = policy.Places
	}

	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}
	amount = amount.Round(places)
	whole := amount.Truncate(0)
	fraction := amount.Sub(whole).Shift(places).IntPart()

	major, minor, groups := code, "Cents", westernGroups
	if code == "INR" {
		major, minor, groups = "Rupees", "Paise", indianGroups
	}

	var b strings.Builder
	b.WriteString(prefix)
	if whole.IsZero() {
		b.WriteString("Zero")
	} else {
		b.WriteString(number(whole, groups))
	}
	if major != "" {
		b.WriteString(" " + major)
	}
	if fraction > 0 {
		b.WriteString(" and " + under1000(fraction) + " " + minor)
	}
	b.WriteString(" only")
	return b.String()
}

// SpellNumber spells a whole number with western grouping.
func SpellNumber(n int64) string {
	if n == 0 {
		return "Zero"
	}
	v := decimal.NewFromInt(n)
	if n < 0 {
		return "Minus " + number(v.Neg(), westernGroups)
	}
	return number(v, westernGroups)
}

// number spells a whole n > 0 using the given groups, largest first. Counts
// above the largest group are spelled recursively.
func number(n decimal.Decimal, groups []group) string {
	parts := make([]string, 0, 4)
	for _, g := range groups {
		size := decimal.NewFromInt(g.size)
		if n.LessThan(size) {
			continue
		}
		count, rest := n.QuoRem(size, 0)
		n = rest
		parts = append(parts, number(count, groups)+" "+g.name)
	}
	if n.IsPositive() {
		parts = append(parts, under1000(n.IntPart()))
	}
	return strings.Join(parts, " ")
}

func under1000(n int64) string {
	parts := make([]string, 0, 3)
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n >= 20 {
		word := tens[n/10]
		if n%10 > 0 {
			word += " " + ones[n%10]
		}
		parts = append(parts, word)
	} else if n > 0 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}
