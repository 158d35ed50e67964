// Package population provides the person data model and the per-settlement
// registry that applies consumption, health, and demographic transitions.
package population

import (
	"github.com/talgya/crossland/internal/world"
)

// PersonID is a unique identifier for a person.
type PersonID uint64

// Sex represents biological sex for demographic simulation.
type Sex uint8

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

// Person is one member of a settlement's population. A person is owned
// exclusively by its settlement's Registry; other systems hold only the
// (settlement id, person id) back-reference.
type Person struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`

	// Demographics
	Age uint16 `json:"age"` // Sim-years
	Sex Sex    `json:"sex"`

	// Affiliation
	SettlementID uint64 `json:"settlement_id"`

	// Work
	Employed  bool            `json:"employed"`
	Job       world.JobKind   `json:"job"`
	Workplace *world.HexCoord `json:"workplace,omitempty"`

	// Skills per occupation, 0–100.
	Skills map[world.JobKind]float64 `json:"skills"`

	// Condition, each 0–100. Hunger is inverted: 0 sated, 100 starving.
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`

	// Family link, if any.
	PartnerID *PersonID `json:"partner_id,omitempty"`

	// Experience earned since the start of the current day.
	DailyExp float64 `json:"daily_exp"`
}

// SkillAt returns the person's skill for a job, zero when untrained.
func (p *Person) SkillAt(job world.JobKind) float64 {
	return p.Skills[job]
}

// GainSkill adds experience to a job skill, capping at 100, and accrues the
// daily experience buffer.
func (p *Person) GainSkill(job world.JobKind, amount float64) {
	if p.Skills == nil {
		p.Skills = make(map[world.JobKind]float64)
	}
	p.DailyExp += amount
	v := p.Skills[job] + amount
	if v > 100 {
		v = 100
	}
	p.Skills[job] = v
}

// ClearJob removes any current work assignment.
func (p *Person) ClearJob() {
	p.Employed = false
	p.Workplace = nil
}

// AssignJob sets the person's occupation and optional workplace.
func (p *Person) AssignJob(job world.JobKind, workplace *world.HexCoord) {
	p.Employed = true
	p.Job = job
	p.Workplace = workplace
}

// WorkingAge bounds for job eligibility. Score and productivity penalties
// apply below 18 and above 60.
const (
	MinWorkingAge = 14
	MaxWorkingAge = 70
)

// CanWork reports whether the person is in the employable age range.
func (p *Person) CanWork() bool {
	return p.Age >= MinWorkingAge && p.Age <= MaxWorkingAge
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
