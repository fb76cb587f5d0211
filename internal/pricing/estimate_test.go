package pricing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		typ      CleaningType
		freq     Frequency
		size     string
		want     int
		wantQuot bool
	}{
		{name: "weekly below first bound", typ: HomeCleaning, freq: Weekly, size: "79", want: 680},
		{name: "weekly second bracket", typ: HomeCleaning, freq: Weekly, size: "80", want: 905},
		{name: "weekly fourth bound", typ: HomeCleaning, freq: Weekly, size: "189", want: 1358},
		{name: "weekly unbounded", typ: HomeCleaning, freq: Weekly, size: "500", want: 1585},
		{name: "bi-weekly blank", typ: HomeCleaning, freq: BiWeekly, size: "", want: 695},
		{name: "one-time", typ: HomeCleaning, freq: OneTime, size: "110", want: 1499},
		{name: "move-out first bracket", typ: MoveOutCleaning, freq: OneTime, size: "40", want: 1588},
		{name: "move-out last fixed", typ: MoveOutCleaning, freq: OneTime, size: "200", want: 5488},
		{name: "move-out above threshold", typ: MoveOutCleaning, freq: OneTime, size: "201", wantQuot: true},
		{name: "move-out ignores weekly", typ: MoveOutCleaning, freq: Weekly, size: "41", want: 1788},
		{name: "unknown frequency uses one-time", typ: HomeCleaning, freq: Frequency("monthly"), size: "10", want: 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.typ, tt.freq, tt.size)
			require.True(t, got.IsSet())
			if tt.wantQuot {
				assert.True(t, got.QuoteRequired())
				assert.Equal(t, QuoteText, got.String())
				return
			}
			kr, ok := got.Amount()
			require.True(t, ok)
			assert.Equal(t, tt.want, kr)
			assert.Equal(t, fmt.Sprintf("%d kr", tt.want), got.String())
		})
	}
}

func TestEstimate_NonNumericSizeIsZero(t *testing.T) {
	inputs := []string{"", "   ", "abc", "-12", "kvm", "-"}
	for _, typ := range []CleaningType{HomeCleaning, MoveOutCleaning} {
		for _, freq := range []Frequency{OneTime, Weekly, BiWeekly} {
			zero := EstimateSize(typ, freq, 0)
			for _, in := range inputs {
				assert.Equal(t, zero, Estimate(typ, freq, in), "%s/%s %q", typ, freq, in)
			}
		}
	}
}

func TestEstimate_TotalOverAllInputs(t *testing.T) {
	inputs := []string{"", "0", "1", "79", "80", "200", "201", "99999999999999999999999", "12.5", "1e3", "+40", "x9", "9x"}
	for _, typ := range []CleaningType{HomeCleaning, MoveOutCleaning} {
		for _, freq := range []Frequency{OneTime, Weekly, BiWeekly} {
			for _, in := range inputs {
				r := Estimate(typ, freq, in)
				assert.True(t, r.IsSet())
				if kr, ok := r.Amount(); ok {
					assert.GreaterOrEqual(t, kr, 0)
				} else {
					assert.True(t, r.QuoteRequired())
				}
			}
		}
	}
}

func TestParseHomeSize(t *testing.T) {
	tests := map[string]int{
		"":       0,
		"85":     85,
		" 85 ":   85,
		"85m2":   85,
		"+40":    40,
		"12.7":   12,
		"-3":     0,
		"abc":    0,
		"007":    7,
		"1e3":    1,
		"999999999999999999999999": math.MaxInt,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseHomeSize(in), "input %q", in)
	}
}

func TestTables_MonotonicAndExhaustive(t *testing.T) {
	for _, nt := range Tables() {
		name := fmt.Sprintf("%s/%s", nt.CleaningType, nt.Frequency)
		require.NotEmpty(t, nt.Brackets, name)
		assert.Equal(t, Unbounded, nt.Brackets[len(nt.Brackets)-1].Max, name)

		for i := 1; i < len(nt.Brackets); i++ {
			prev, cur := nt.Brackets[i-1], nt.Brackets[i]
			assert.Greater(t, cur.Max, prev.Max, name)
			if !cur.Quote && !prev.Quote {
				assert.GreaterOrEqual(t, cur.Price, prev.Price, name)
			}
		}
	}
}

func TestTables_BoundaryBelongsToLowerBracket(t *testing.T) {
	for _, nt := range Tables() {
		for i, b := range nt.Brackets {
			if b.Max == Unbounded {
				continue
			}
			assert.Equal(t, bracketResult(b), nt.Brackets.Lookup(b.Max))
			assert.Equal(t, bracketResult(nt.Brackets[i+1]), nt.Brackets.Lookup(b.Max+1))
		}
	}
}

// The move-out table and the explicit threshold are separate rules that must agree.
func TestMoveOut_ThresholdMatchesTable(t *testing.T) {
	assert.Equal(t, MoveOutQuoteThreshold, moveOut.LastFiniteBound())

	for size := 0; size <= MoveOutQuoteThreshold+50; size++ {
		viaRule := EstimateSize(MoveOutCleaning, OneTime, size)
		viaTable := moveOut.Lookup(size)
		assert.Equal(t, viaTable, viaRule, "size %d", size)
	}
}

func TestEstimate_MonotonicBySize(t *testing.T) {
	for _, nt := range Tables() {
		last := -1
		for size := 0; size <= 400; size++ {
			r := EstimateSize(nt.CleaningType, nt.Frequency, size)
			kr, ok := r.Amount()
			if !ok {
				continue
			}
			assert.GreaterOrEqual(t, kr, last)
			last = kr
		}
	}
}

func TestTables_ReturnsCopies(t *testing.T) {
	tables := Tables()
	tables[0].Brackets[0].Price = 1

	assert.Equal(t, 680, EstimateSize(HomeCleaning, Weekly, 10).price)
}

func TestResult_ZeroValue(t *testing.T) {
	var r Result
	assert.False(t, r.IsSet())
	assert.False(t, r.QuoteRequired())
	_, ok := r.Amount()
	assert.False(t, ok)
	assert.Equal(t, "0 kr", r.String())
}

func TestFrequencyHelpers(t *testing.T) {
	assert.Equal(t, Weekly, DefaultFrequency(HomeCleaning))
	assert.Equal(t, OneTime, DefaultFrequency(MoveOutCleaning))
	assert.Equal(t, []Frequency{OneTime}, Frequencies(MoveOutCleaning))
	assert.Equal(t, OneTime, NormalizeFrequency(MoveOutCleaning, BiWeekly))
	assert.Equal(t, BiWeekly, NormalizeFrequency(HomeCleaning, BiWeekly))
	assert.Equal(t, OneTime, NormalizeFrequency(HomeCleaning, Frequency("")))

	typ, ok := ParseCleaningType(" Flyttstadning ")
	assert.True(t, ok)
	assert.Equal(t, MoveOutCleaning, typ)
	_, ok = ParseCleaningType("window")
	assert.False(t, ok)
}

func bracketResult(b Bracket) Result {
	if b.Quote {
		return Quote()
	}
	return Price(b.Price)
}
