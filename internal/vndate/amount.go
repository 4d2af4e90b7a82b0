// Package vndate normalizes the Vietnamese amount and date shorthand used
// in chat messages into concrete values: "80k" style amount tokens into
// integer VND, and relative or partial date expressions into calendar
// dates and reporting ranges.
package vndate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a number with an optional decimal part and an
// optional magnitude unit.
var amountPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(k|m|tr|triệu|nghìn)?$`)

// ParseAmount converts an amount token ("80k", "1.5m", "2tr", "500000")
// into integer VND. The decimal separator may be either "." or ",".
func ParseAmount(token string) (int64, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	match := amountPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, fmt.Errorf("unparseable amount token %q", token)
	}

	number, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount token %q: %w", token, err)
	}

	switch match[2] {
	case "k", "nghìn":
		number *= 1_000
	case "m", "tr", "triệu":
		number *= 1_000_000
	}

	return int64(number), nil
}
