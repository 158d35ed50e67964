package trade

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/social"
	"github.com/talgya/crossland/internal/world"
)

// RouteProvider resolves a precomputed path between two settlement centers.
// A nil result means the settlements are not connected.
type RouteProvider interface {
	Route(from, to uint64) []world.HexCoord
}

// Trader slots per settlement size.
const (
	tradersPerHamlet  = 1
	tradersPerVillage = 2
	tradersPerCity    = 3
)

// Extra slots granted by market conditions.
const (
	urgentExtraSlots  = 2
	surplusExtraSlots = 1
)

// Starting capital per settlement size; doubled under urgent demand.
const (
	capitalHamlet  = 50
	capitalVillage = 100
	capitalCity    = 150
)

// urgentBuyPriority marks demand pressing enough to over-dispatch for.
const urgentBuyPriority = 85

// surplusSellQty is the total stock on offer past which a settlement opens
// an extra outbound slot.
const surplusSellQty = 100

// maxIdleTurns is how long a returned trader waits at home for a new run
// before disbanding back into the labor pool.
const maxIdleTurns = 3

// Network owns every active trader and advances them each turn.
type Network struct {
	traders []*Trader
	routes  RouteProvider
	worldM  *world.Map
	rng     *rand.Rand

	idleTurns map[*Trader]int
}

// NewNetwork builds the trade layer over a generated map and route table.
func NewNetwork(m *world.Map, routes RouteProvider, seed int64) *Network {
	return &Network{
		routes:    routes,
		worldM:    m,
		rng:       rand.New(rand.NewSource(seed + 700)),
		idleTurns: make(map[*Trader]int),
	}
}

// Traders returns the live trader list.
func (n *Network) Traders() []*Trader { return n.traders }

// newID draws a trader id from the network's seeded rng so repeated runs of
// the same world produce the same fleet.
func (n *Network) newID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(n.rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

// Restore reinstates a persisted trader.
func (n *Network) Restore(t *Trader) {
	n.traders = append(n.traders, t)
}

// ReservedPeople returns the ids of people currently working as traders for
// a settlement; worker assignment must not touch them.
func (n *Network) ReservedPeople(settlementID uint64) map[population.PersonID]bool {
	out := make(map[population.PersonID]bool)
	for _, t := range n.traders {
		if t.HomeID == settlementID {
			out[t.PersonID] = true
		}
	}
	return out
}

// ProcessTurn runs one tick of the trade layer: reap traders whose person
// died, dispatch runs against current opportunities, then advance every
// trader one step. Returns human-readable event lines.
func (n *Network) ProcessTurn(settlements []*social.Settlement) []string {
	var events []string
	byID := make(map[uint64]*social.Settlement, len(settlements))
	for _, s := range settlements {
		byID[s.ID] = s
	}

	events = append(events, n.reapDead(byID)...)
	events = append(events, n.dispatch(settlements, byID)...)

	var disband []*Trader
	for _, t := range append([]*Trader(nil), n.traders...) {
		if t.State == StateIdle {
			n.idleTurns[t]++
			if n.idleTurns[t] >= maxIdleTurns {
				disband = append(disband, t)
			}
			continue
		}
		if ev := n.advance(t, byID); ev != "" {
			events = append(events, ev)
		}
	}
	for _, t := range disband {
		if ev := n.disband(t, byID); ev != "" {
			events = append(events, ev)
		}
	}
	return events
}

// reapDead removes traders whose backing person is gone; the purse returns
// to the home treasury and any cargo goes back into the home stockpile.
func (n *Network) reapDead(byID map[uint64]*social.Settlement) []string {
	var events []string
	kept := n.traders[:0]
	for _, t := range n.traders {
		home := byID[t.HomeID]
		if home == nil {
			delete(n.idleTurns, t)
			continue
		}
		if _, ok := home.People.ByID(t.PersonID); ok {
			kept = append(kept, t)
			continue
		}
		for _, s := range t.Cargo {
			home.Ledger.Add(s.Material, s.Qty)
		}
		home.Ledger.AddMoney(t.Purse)
		delete(n.idleTurns, t)
		events = append(events, fmt.Sprintf("%s lost its trader on the road; %d crowns and the cargo recovered", home.Name, t.Purse))
	}
	n.traders = kept
	return events
}

// dispatch assigns the best open opportunities, reusing idle home traders
// before spawning new ones, within each settlement's slot cap and treasury.
func (n *Network) dispatch(settlements []*social.Settlement, byID map[uint64]*social.Settlement) []string {
	var events []string

	active := make(map[uint64]int)
	idle := make(map[uint64][]*Trader)
	for _, t := range n.traders {
		active[t.HomeID]++
		if t.State == StateIdle {
			idle[t.HomeID] = append(idle[t.HomeID], t)
		}
	}

	opps := FindOpportunities(settlements, n.routes)
	for _, opp := range opps {
		src := byID[opp.BuyFrom]
		if src == nil {
			continue
		}
		urgent := opp.BuyPriority >= urgentBuyPriority ||
			src.People.AverageHealth() < 60 ||
			src.People.AverageHunger() > 40

		capital := startingCapital(src.Kind)
		if urgent {
			capital *= 2
		}

		// An idle trader takes the run first, topped up from the treasury.
		if pool := idle[src.ID]; len(pool) > 0 {
			t := pool[0]
			topUp := uint64(0)
			if t.Purse < capital {
				topUp = capital - t.Purse
			}
			if topUp > 0 && !src.Ledger.RemoveMoney(topUp) {
				continue
			}
			t.Purse += topUp
			t.BuyFrom = opp.BuyFrom
			t.SellTo = opp.SellTo
			t.Material = opp.Material
			t.PlanQty = opp.Qty
			t.State = StateTravelingToBuy
			t.Path = nil
			delete(n.idleTurns, t)
			idle[src.ID] = pool[1:]
			events = append(events, fmt.Sprintf("%s sent its trader back out for %s", src.Name, opp.Material))
			continue
		}

		if active[src.ID] >= n.slotsFor(src, urgent) {
			continue
		}
		if !src.Ledger.RemoveMoney(capital) {
			continue
		}
		person := bestMerchant(src.People)
		if person == nil {
			src.Ledger.AddMoney(capital)
			continue
		}
		person.AssignJob(world.JobMerchant, nil)

		center := src.Center
		t := NewTrader(n.newID(), person, &center, opp, capital)
		n.traders = append(n.traders, t)
		active[src.ID]++

		events = append(events, fmt.Sprintf("%s dispatched %s to trade %s (%d crowns capital)",
			src.Name, person.Name, opp.Material, capital))
	}
	return events
}

// slotsFor is the settlement's trader cap under current conditions.
func (n *Network) slotsFor(s *social.Settlement, urgent bool) int {
	var slots int
	switch s.Kind {
	case world.SizeCity:
		slots = tradersPerCity
	case world.SizeVillage:
		slots = tradersPerVillage
	default:
		slots = tradersPerHamlet
	}
	if urgent {
		slots += urgentExtraSlots
	}
	total := 0
	for _, off := range s.Market.SellOffers() {
		total += off.Qty
	}
	if total > surplusSellQty {
		slots += surplusExtraSlots
	}
	return slots
}

func startingCapital(kind world.SettlementSize) uint64 {
	switch kind {
	case world.SizeCity:
		return capitalCity
	case world.SizeVillage:
		return capitalVillage
	default:
		return capitalHamlet
	}
}

// bestMerchant picks the strongest unemployed working-age candidate,
// weighting merchant skill over condition.
func bestMerchant(reg *population.Registry) *population.Person {
	pool := reg.Unemployed()
	if len(pool) == 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a := 2*pool[i].SkillAt(world.JobMerchant) + pool[i].Health + 0.5*pool[i].Happiness
		b := 2*pool[j].SkillAt(world.JobMerchant) + pool[j].Health + 0.5*pool[j].Happiness
		return a > b
	})
	return pool[0]
}

// advance runs one turn of a trader's state machine.
func (n *Network) advance(t *Trader, byID map[uint64]*social.Settlement) string {
	switch t.State {
	case StateTravelingToBuy:
		if t.travel(n.worldM) {
			t.State = StateBuying
		}
	case StateBuying:
		return n.executeBuy(t, byID)
	case StateTravelingToSell:
		if t.travel(n.worldM) {
			t.State = StateSelling
		}
	case StateSelling:
		return n.executeSell(t, byID)
	case StateReturningHome:
		if t.travel(n.worldM) {
			return n.arriveHome(t, byID)
		}
	}
	return ""
}

// executeBuy purchases the planned stack at the source market. The whole
// exchange settles atomically; an empty purchase aborts the run.
func (n *Network) executeBuy(t *Trader, byID map[uint64]*social.Settlement) string {
	src := byID[t.BuyFrom]
	if src == nil {
		n.headHome(t, t.BuyFrom)
		return ""
	}

	price := src.Market.Price(t.Material)
	qty := t.PlanQty
	if room := t.Capacity - t.cargoLoad(); qty > room {
		qty = room
	}
	if have := src.Ledger.AmountOf(t.Material); qty > have {
		qty = have
	}
	if price > 0 {
		if afford := int(float64(t.Purse) / price); qty > afford {
			qty = afford
		}
	}
	if qty <= 0 {
		n.headHome(t, t.BuyFrom)
		return ""
	}

	cost := uint64(math.Round(float64(qty) * price))
	if cost > t.Purse || !src.Ledger.Remove(t.Material, qty) {
		n.headHome(t, t.BuyFrom)
		return ""
	}
	t.Purse -= cost
	src.Ledger.AddMoney(cost)
	t.addCargo(t.Material, qty)

	path := n.routes.Route(t.BuyFrom, t.SellTo)
	if path == nil {
		n.headHome(t, t.BuyFrom)
		return ""
	}
	t.State = StateTravelingToSell
	t.Path = append([]world.HexCoord(nil), path...)
	return fmt.Sprintf("trader bought %d %s at %s for %d crowns", qty, t.Material, src.Name, cost)
}

// executeSell unloads cargo at the destination, limited by its treasury and
// storage space. Unsold cargo rides home.
func (n *Network) executeSell(t *Trader, byID map[uint64]*social.Settlement) string {
	dst := byID[t.SellTo]
	if dst == nil {
		n.headHome(t, t.SellTo)
		return ""
	}

	price := dst.Market.Price(t.Material)
	qty := t.CargoQty(t.Material)
	if space := dst.Ledger.Capacity() - dst.Ledger.TotalStock(); qty > space {
		qty = space
	}
	if price > 0 {
		if afford := int(float64(dst.Ledger.Money()) / price); qty > afford {
			qty = afford
		}
	}
	if qty <= 0 {
		n.headHome(t, t.SellTo)
		return ""
	}

	proceeds := uint64(math.Round(float64(qty) * price))
	if !dst.Ledger.RemoveMoney(proceeds) {
		n.headHome(t, t.SellTo)
		return ""
	}
	t.removeCargo(t.Material, qty)
	dst.Ledger.Add(t.Material, qty)
	t.Purse += proceeds

	n.headHome(t, t.SellTo)
	return fmt.Sprintf("trader sold %d %s at %s for %d crowns", qty, t.Material, dst.Name, proceeds)
}

// headHome points the trader back to its home center from the settlement it
// currently stands at. Standing at home means arrival next turn.
func (n *Network) headHome(t *Trader, at uint64) {
	t.State = StateReturningHome
	if at == t.HomeID {
		t.Path = nil
		return
	}
	if p := n.routes.Route(at, t.HomeID); p != nil {
		t.Path = append([]world.HexCoord(nil), p...)
		return
	}
	t.Path = nil
}

// arriveHome deposits leftover cargo into the home stockpile and sweeps the
// purse above the working-capital floor into the treasury. The trader then
// idles at home, ready for another run.
func (n *Network) arriveHome(t *Trader, byID map[uint64]*social.Settlement) string {
	home := byID[t.HomeID]
	if home == nil {
		return ""
	}

	for _, s := range t.Cargo {
		home.Ledger.Add(s.Material, s.Qty)
	}
	t.Cargo = nil

	swept := uint64(0)
	if t.Purse > workingCapitalFloor {
		swept = t.Purse - workingCapitalFloor
		home.Ledger.AddMoney(swept)
		t.Purse = workingCapitalFloor
	}

	if p, ok := home.People.ByID(t.PersonID); ok {
		p.GainSkill(world.JobMerchant, 2.0)
	}

	t.State = StateIdle
	n.idleTurns[t] = 0
	return fmt.Sprintf("trader returned to %s; %d crowns banked", home.Name, swept)
}

// disband retires an idle trader: the remaining purse joins the treasury and
// the person rejoins the labor pool.
func (n *Network) disband(t *Trader, byID map[uint64]*social.Settlement) string {
	home := byID[t.HomeID]
	if home != nil {
		home.Ledger.AddMoney(t.Purse)
		if p, ok := home.People.ByID(t.PersonID); ok {
			p.ClearJob()
		}
	}
	t.Purse = 0
	delete(n.idleTurns, t)
	for i, other := range n.traders {
		if other == t {
			n.traders = append(n.traders[:i], n.traders[i+1:]...)
			break
		}
	}
	if home == nil {
		return ""
	}
	return fmt.Sprintf("trader at %s stood down", home.Name)
}
