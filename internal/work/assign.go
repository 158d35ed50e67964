// Package work matches available population to building job slots. The
// assignment is recomputed from scratch every turn: it clears every job,
// staffs buildings in descending priority, and leaves the remainder as
// unlocated farmhands.
package work

import (
	"sort"

	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/world"
)

// Crew is the staffing outcome for one building: the assigned workers and
// their averaged productivity, frozen for the production job they start.
type Crew struct {
	Building     world.Building
	Workers      []*population.Person
	Productivity float64
}

// dailyExperience is the skill gain for a day spent at an assigned job.
const dailyExperience = 0.1

// Assign recomputes the full worker assignment for one settlement. Buildings
// are staffed in descending priority (explicit overrides first, else the
// fixed category table); each takes up to its capacity from the remaining
// pool, so nobody is double-booked. Leftover workers default to an unlocated
// farmer role. People in reserved keep their current job untouched; traders
// on the road are reserved by the trade network.
func Assign(reg *population.Registry, buildings []world.Building, overrides map[world.BuildingKind]int, reserved map[population.PersonID]bool) []Crew {
	// Stateless w.r.t. the previous turn: clear everything first.
	for _, p := range reg.People() {
		if reserved[p.ID] {
			continue
		}
		p.ClearJob()
	}

	// Order buildings by priority, stable on input order for determinism.
	ordered := make([]world.Building, len(buildings))
	copy(ordered, buildings)
	prio := func(b world.BuildingKind) int {
		if overrides != nil {
			if v, ok := overrides[b]; ok {
				return v
			}
		}
		return world.StaffingPriority(b)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return prio(ordered[i].Kind) > prio(ordered[j].Kind)
	})

	pool := availablePool(reg)

	var crews []Crew
	for _, b := range ordered {
		capacity := world.WorkerCapacity(b.Kind)
		if capacity <= 0 || len(pool) == 0 {
			continue
		}
		job := world.JobFor(b.Kind)

		// Score the remaining pool for this building's job; stable sort
		// breaks ties by input order.
		sort.SliceStable(pool, func(i, j int) bool {
			return score(pool[i], job) > score(pool[j], job)
		})

		take := capacity
		if take > len(pool) {
			take = len(pool)
		}

		loc := b.Location
		crew := Crew{Building: b}
		sum := 0.0
		for _, p := range pool[:take] {
			p.AssignJob(job, &loc)
			p.GainSkill(job, dailyExperience)
			crew.Workers = append(crew.Workers, p)
			sum += Productivity(p, job)
		}
		crew.Productivity = sum / float64(take)
		crews = append(crews, crew)

		pool = pool[take:]
	}

	// Whoever is left works the fields with no building link.
	for _, p := range pool {
		p.AssignJob(world.JobFarmer, nil)
		p.GainSkill(world.JobFarmer, dailyExperience)
	}

	return crews
}

func availablePool(reg *population.Registry) []*population.Person {
	var pool []*population.Person
	for _, p := range reg.People() {
		if p.CanWork() && !p.Employed {
			pool = append(pool, p)
		}
	}
	return pool
}

// score ranks a candidate for a job: skill dominates, condition matters,
// the very young and the old are penalized.
func score(p *population.Person, job world.JobKind) float64 {
	s := 2*p.SkillAt(job) + p.Health + 0.5*p.Happiness
	if p.Age < 18 {
		s *= 0.5
	} else if p.Age > 60 {
		s *= 0.8
	}
	return s
}

// Productivity computes a worker's output multiplier for a job. All factors
// compose multiplicatively.
func Productivity(p *population.Person, job world.JobKind) float64 {
	skill := 0.5 + p.SkillAt(job)/100
	health := p.Health / 100
	happiness := 0.8 + 0.4*p.Happiness/100

	age := 1.0
	if p.Age < 18 {
		age = 0.3
	} else if p.Age > 60 {
		age = 0.8
	}

	return skill * health * happiness * age
}
