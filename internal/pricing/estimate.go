// Package pricing computes Nordclean price estimates from tiered bracket tables.
//
// Estimate is pure and safe for concurrent use. It never fails: malformed
// sizes degrade to 0 and sizes without a fixed price yield a quote result.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// QuoteText is shown instead of an amount when no fixed price applies.
const QuoteText = "Begär offert"

// Result is either a fixed price in kronor or a quote request. The zero
// value is the unset result a selection holds until it is recomputed.
type Result struct {
	set   bool
	quote bool
	price int
}

func Price(kr int) Result {
	if kr < 0 {
		kr = 0
	}
	return Result{set: true, price: kr}
}

func Quote() Result {
	return Result{set: true, quote: true}
}

func (r Result) IsSet() bool { return r.set }

func (r Result) QuoteRequired() bool { return r.set && r.quote }

// Amount returns the fixed price. ok is false for quote and unset results.
func (r Result) Amount() (kr int, ok bool) {
	if !r.set || r.quote {
		return 0, false
	}
	return r.price, true
}

// String renders the result the way the page shows it: "905 kr" or "Begär offert".
func (r Result) String() string {
	if r.QuoteRequired() {
		return QuoteText
	}
	return strconv.Itoa(r.price) + " kr"
}

// Estimate prices a selection. homeSizeRaw is the text the visitor typed.
func Estimate(t CleaningType, f Frequency, homeSizeRaw string) Result {
	return EstimateSize(t, f, ParseHomeSize(homeSizeRaw))
}

// EstimateSize prices a selection with an already parsed size.
func EstimateSize(t CleaningType, f Frequency, size int) Result {
	if size < 0 {
		size = 0
	}
	if t == MoveOutCleaning && size > MoveOutQuoteThreshold {
		return Quote()
	}
	return tableFor(t, f).Lookup(size)
}

// ParseHomeSize reads the leading integer of raw, so "85", " 85 " and "85m2"
// all give 85. Blank, non-numeric and negative input give 0; values too
// large for an int saturate.
func ParseHomeSize(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-") {
		return 0
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only a range error is possible for a digit run
		return math.MaxInt
	}
	return n
}
