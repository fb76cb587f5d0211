package session

import (
	"errors"

	"nordclean/internal/pricing"
)

var ErrUnknownCleaningType = errors.New("unknown cleaning type")

// Selection is what a visitor has picked so far and the price it gives.
type Selection struct {
	CleaningType pricing.CleaningType
	Frequency    pricing.Frequency
	HomeSize     string
	Price        pricing.Result
}

// DefaultSelection is the state of a fresh page: home cleaning, weekly, no size.
func DefaultSelection() Selection {
	return Selection{
		CleaningType: pricing.HomeCleaning,
		Frequency:    pricing.DefaultFrequency(pricing.HomeCleaning),
	}.Recompute()
}

// WithCleaningType switches the type, resets the frequency to the type's
// default and clears the price. The caller recomputes.
func (s Selection) WithCleaningType(t pricing.CleaningType) Selection {
	s.CleaningType = t
	s.Frequency = pricing.DefaultFrequency(t)
	s.Price = pricing.Result{}
	return s
}

func (s Selection) WithFrequency(f pricing.Frequency) Selection {
	s.Frequency = pricing.NormalizeFrequency(s.CleaningType, f)
	return s
}

func (s Selection) WithHomeSize(raw string) Selection {
	s.HomeSize = raw
	return s
}

// Recompute replaces the price with a fresh estimate of the current inputs.
func (s Selection) Recompute() Selection {
	s.Price = pricing.Estimate(s.CleaningType, s.Frequency, s.HomeSize)
	return s
}
