package pricing

import "math"

// Unbounded is the upper bound of the last bracket in every table.
const Unbounded = math.MaxInt

// MoveOutQuoteThreshold is the largest move-out size with a fixed price.
// It must equal the last finite bound of the move-out table.
const MoveOutQuoteThreshold = 200

// Bracket is one pricing tier. Max is inclusive.
type Bracket struct {
	Max   int
	Price int
	Quote bool
}

type Table []Bracket

// Lookup returns the first bracket whose bound is >= size.
func (t Table) Lookup(size int) Result {
	for _, b := range t {
		if size <= b.Max {
			if b.Quote {
				return Quote()
			}
			return Price(b.Price)
		}
	}
	// tables are exhaustive; reaching here means a table lost its unbounded bracket
	return Quote()
}

// LastFiniteBound is the largest bound below Unbounded, or 0 if there is none.
func (t Table) LastFiniteBound() int {
	last := 0
	for _, b := range t {
		if b.Max != Unbounded && b.Max > last {
			last = b.Max
		}
	}
	return last
}

var (
	homeWeekly = Table{
		{Max: 79, Price: 680},
		{Max: 109, Price: 905},
		{Max: 149, Price: 1132},
		{Max: 189, Price: 1358},
		{Max: Unbounded, Price: 1585},
	}
	homeBiWeekly = Table{
		{Max: 79, Price: 695},
		{Max: 109, Price: 925},
		{Max: 149, Price: 1157},
		{Max: 189, Price: 1388},
		{Max: Unbounded, Price: 1620},
	}
	homeOneTime = Table{
		{Max: 79, Price: 999},
		{Max: 109, Price: 1249},
		{Max: 149, Price: 1499},
		{Max: 189, Price: 1749},
		{Max: Unbounded, Price: 1999},
	}
	moveOut = Table{
		{Max: 40, Price: 1588},
		{Max: 50, Price: 1788},
		{Max: 60, Price: 2288},
		{Max: 70, Price: 2488},
		{Max: 80, Price: 2788},
		{Max: 90, Price: 3088},
		{Max: 100, Price: 3388},
		{Max: 110, Price: 3588},
		{Max: 120, Price: 3788},
		{Max: 130, Price: 3988},
		{Max: 140, Price: 4288},
		{Max: 150, Price: 4488},
		{Max: 160, Price: 4688},
		{Max: 170, Price: 4888},
		{Max: 180, Price: 5088},
		{Max: 190, Price: 5288},
		{Max: 200, Price: 5488},
		{Max: Unbounded, Quote: true},
	}
)

// NamedTable pairs a table with the selection it prices.
type NamedTable struct {
	CleaningType CleaningType
	Frequency    Frequency
	Brackets     Table
}

// Tables returns copies of all pricing tables in display order.
func Tables() []NamedTable {
	return []NamedTable{
		{CleaningType: HomeCleaning, Frequency: Weekly, Brackets: clone(homeWeekly)},
		{CleaningType: HomeCleaning, Frequency: BiWeekly, Brackets: clone(homeBiWeekly)},
		{CleaningType: HomeCleaning, Frequency: OneTime, Brackets: clone(homeOneTime)},
		{CleaningType: MoveOutCleaning, Frequency: OneTime, Brackets: clone(moveOut)},
	}
}

func tableFor(t CleaningType, f Frequency) Table {
	if t == MoveOutCleaning {
		return moveOut
	}
	switch f {
	case Weekly:
		return homeWeekly
	case BiWeekly:
		return homeBiWeekly
	default:
		return homeOneTime
	}
}

func clone(t Table) Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}
