package server

import (
	"nordclean/internal/pricing"
	"nordclean/internal/session"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageView struct {
	CleaningTypes []option
	Frequencies   []option
	HomeSize      string
	Price         string
	MoveOut       bool
	SiteKey       string
}

func newPageView(sel session.Selection, siteKey string) pageView {
	v := pageView{
		HomeSize: sel.HomeSize,
		Price:    sel.Price.String(),
		MoveOut:  sel.CleaningType == pricing.MoveOutCleaning,
		SiteKey:  siteKey,
	}
	for _, t := range []pricing.CleaningType{pricing.HomeCleaning, pricing.MoveOutCleaning} {
		v.CleaningTypes = append(v.CleaningTypes, option{
			Value:    string(t),
			Label:    t.Label(),
			Selected: t == sel.CleaningType,
		})
	}
	for _, f := range pricing.Frequencies(sel.CleaningType) {
		v.Frequencies = append(v.Frequencies, option{
			Value:    string(f),
			Label:    f.Label(),
			Selected: f == sel.Frequency,
		})
	}
	return v
}
