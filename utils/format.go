package utils

import (
	"fmt"
	"strings"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// IntToRoman converts a positive integer to its roman numeral.
// Zero and negative values render as "0", matching how a level-0 skill
// is displayed.
func IntToRoman(n int) string {
	if n <= 0 {
		return "0"
	}
	var sb strings.Builder
	for _, numeral := range romanNumerals {
		for n >= numeral.value {
			sb.WriteString(numeral.symbol)
			n -= numeral.value
		}
	}
	return sb.String()
}

// FormatInches renders an inch amount as bold reward text
func FormatInches(amount int64) string {
	return fmt.Sprintf("**%d inches**", amount)
}

// FormatRewards renders a combined reward string of inches and loot,
// e.g. "**12 inches**, 🥫 **Old Can** x2 and 🧦 **Sock**"
func FormatRewards(inches int64, loot []LootableItem) string {
	parts := make([]string, 0, len(loot)+1)
	if inches != 0 {
		parts = append(parts, FormatInches(inches))
	}
	for _, item := range loot {
		parts = append(parts, item.String())
	}

	switch len(parts) {
	case 0:
		return "nothing"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
