package population

import (
	"github.com/talgya/crossland/internal/ledger"
)

// ProcessTurn runs one day of population dynamics against the settlement
// ledger, in fixed order: experience reset, aging, consumption, condition
// updates, births, deaths, immigration, emigration. The returned report
// feeds engine logging and the market's raw-substitution signal.
func (r *Registry) ProcessTurn(led *ledger.Ledger, isCity bool, housing int, unemployed int) Report {
	var rep Report

	// (1) Reset daily experience buffers.
	for _, p := range r.people {
		p.DailyExp = 0
	}

	// (2) Aging: one year every DaysPerYear turns.
	r.dayCount++
	if r.dayCount%DaysPerYear == 0 {
		for _, p := range r.people {
			p.Age++
		}
		rep.AgedYear = true
	}

	// (3) Consumption, (4) condition.
	r.consumeFood(led, &rep)
	r.applyCondition(&rep)

	// (5)–(8) Demographics.
	r.processBirths(led, housing, &rep)
	r.processDeaths(&rep)
	r.processImmigration(led, isCity, housing, unemployed, &rep)
	r.processEmigration(led, &rep)

	r.lastReport = rep
	return rep
}
