package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "range in k", text: "15-25k", expected: 15000},
		{name: "upper case K", text: "8-12K·13薪", expected: 8000},
		{name: "ten thousand", text: "2-3万", expected: 20000},
		{name: "w shorthand", text: "1.5w", expected: 10000},
		{name: "plain number", text: "4500元/月", expected: 4500},
		{name: "full width digits", text: "１５Ｋ", expected: 15000},
		{name: "chinese thousand", text: "5千", expected: 5000},
		{name: "negotiable chinese", text: "面议", expected: Sentinel},
		{name: "negotiable english", text: "Negotiable", expected: Sentinel},
		{name: "sentinel default", text: "negotiable", expected: Sentinel},
		{name: "empty", text: "   ", expected: Sentinel},
		{name: "no digits", text: "competitive", expected: Sentinel},
		{name: "overflowing literal", text: "99999999999999999999999", expected: Sentinel},
		{name: "huge parsed value stays ahead of sentinel", text: "500万", expected: Sentinel - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rank(tt.text))
		})
	}
}

func TestRank_Ordering(t *testing.T) {
	assert.Greater(t, Rank("15-25k"), Rank("5k"))
	assert.Greater(t, Rank("negotiable"), Rank("3-5万"))
	assert.Greater(t, Rank("面议"), Rank("500万"))
}
