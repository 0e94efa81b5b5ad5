package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SeasoningPrefix marks a SKU that names a seasoning at a specific amount.
const SeasoningPrefix = "SEASONING:"

var amountWithUnit = regexp.MustCompile(`^(\d+)([A-Za-z]+)$`)

// BuildSeasoningSKU formats SEASONING:<name>:<amount><UNIT>.
func BuildSeasoningSKU(name string, amount int, unit string) string {
	return fmt.Sprintf("%s%s:%d%s", SeasoningPrefix, name, amount, strings.ToUpper(unit))
}

// ParseSeasoningSKU splits a seasoning SKU into its name, amount and unit.
func ParseSeasoningSKU(sku string) (name string, amount int, unit string, ok bool) {
	parts := strings.Split(sku, ":")
	if len(parts) < 3 || parts[0]+":" != SeasoningPrefix {
		return "", 0, "", false
	}
	m := amountWithUnit.FindStringSubmatch(parts[2])
	if m == nil {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, "", false
	}
	return parts[1], n, strings.ToUpper(m[2]), true
}

// IsSeasoningSKU reports whether sku carries the seasoning prefix.
func IsSeasoningSKU(sku string) bool {
	return strings.HasPrefix(sku, SeasoningPrefix)
}

// SeasoningName extracts the seasoning name from an input. Inputs may be a
// full seasoning SKU, a SEASONING:<name> stub, or a bare name.
func SeasoningName(input string) string {
	if !IsSeasoningSKU(input) {
		return input
	}
	parts := strings.Split(input, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// SeasoningNameMatches reports whether a required SKU is a seasoning whose
// text contains name. Containment, not equality: a name that is a substring
// of another seasoning's name matches both.
func SeasoningNameMatches(requiredSKU, name string) bool {
	return name != "" && IsSeasoningSKU(requiredSKU) && strings.Contains(requiredSKU, name)
}

// AmountsEqual compares portion amounts.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
