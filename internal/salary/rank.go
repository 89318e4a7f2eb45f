// Package salary turns free-text compensation into a sortable number.
package salary

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Sentinel ranks negotiable or unparseable salaries after every parsed one.
const Sentinel = 999999

var (
	numberRegex      = regexp.MustCompile(`\d+`)
	negotiableRegex  = regexp.MustCompile(`(?i)面议|negotiable`)
	thousandRegex    = regexp.MustCompile(`(?i)k|千`)
	tenThousandRegex = regexp.MustCompile(`(?i)万|w`)
)

// Rank returns the lowest figure in text scaled by its unit marker, or
// Sentinel. The value is only used for ordering.
func Rank(text string) int {
	//fold full-width digits and letters: "１５Ｋ" -> "15K"
	text = width.Fold.String(strings.TrimSpace(text))
	if text == "" || negotiableRegex.MatchString(text) {
		return Sentinel
	}

	match := numberRegex.FindString(text)
	if match == "" {
		return Sentinel
	}
	num, err := strconv.Atoi(match)
	if err != nil {
		return Sentinel
	}

	multiplier := 1
	switch {
	case thousandRegex.MatchString(text):
		multiplier = 1000
	case tenThousandRegex.MatchString(text):
		multiplier = 10000
	}
	//parsed figures always rank ahead of the sentinel
	if num >= (Sentinel-1)/multiplier {
		return Sentinel - 1
	}
	return num * multiplier
}
