package pricing

import "strings"

type CleaningType string

const (
	HomeCleaning    CleaningType = "hemstadning"
	MoveOutCleaning CleaningType = "flyttstadning"
)

type Frequency string

const (
	OneTime  Frequency = "one-time"
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "bi-weekly"
)

// Label is the text shown on the page and sent with a submission.
func (t CleaningType) Label() string {
	switch t {
	case MoveOutCleaning:
		return "Flyttstäd"
	default:
		return "Hemstäd"
	}
}

func (f Frequency) Label() string {
	switch f {
	case Weekly:
		return "Varje Vecka"
	case BiWeekly:
		return "Varannan Vecka"
	default:
		return "En gång"
	}
}

// ParseCleaningType accepts the wire values and a couple of English aliases.
func ParseCleaningType(s string) (CleaningType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(HomeCleaning), "home", "home-cleaning":
		return HomeCleaning, true
	case string(MoveOutCleaning), "move-out", "move-out-cleaning":
		return MoveOutCleaning, true
	}
	return "", false
}

func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case OneTime:
		return OneTime, true
	case Weekly:
		return Weekly, true
	case BiWeekly:
		return BiWeekly, true
	}
	return "", false
}

// DefaultFrequency is the frequency a visitor lands on after picking a cleaning type.
func DefaultFrequency(t CleaningType) Frequency {
	if t == MoveOutCleaning {
		return OneTime
	}
	return Weekly
}

// Frequencies lists the options offered for a cleaning type, in page order.
func Frequencies(t CleaningType) []Frequency {
	if t == MoveOutCleaning {
		return []Frequency{OneTime}
	}
	return []Frequency{Weekly, BiWeekly, OneTime}
}

// NormalizeFrequency returns the frequency actually applied for t.
func NormalizeFrequency(t CleaningType, f Frequency) Frequency {
	if t == MoveOutCleaning {
		return OneTime
	}
	if _, ok := ParseFrequency(string(f)); !ok {
		return OneTime
	}
	return f
}
