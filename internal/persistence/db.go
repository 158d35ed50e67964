// Package persistence provides SQLite-based world state storage. Saves are
// full-replace and transactional per table; the terrain itself is never
// stored, only the generation seed, so a load regenerates the map and
// restores everything mutable on top of it.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/engine"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/ledger"
	"github.com/talgya/crossland/internal/population"
	"github.com/talgya/crossland/internal/social"
	"github.com/talgya/crossland/internal/trade"
	"github.com/talgya/crossland/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settlements (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		center_q INTEGER NOT NULL,
		center_r INTEGER NOT NULL,
		housing INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		treasury INTEGER NOT NULL,
		day_count INTEGER NOT NULL,
		buildings_json TEXT NOT NULL,
		stock_json TEXT NOT NULL,
		jobs_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY,
		settlement_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		sex INTEGER NOT NULL,
		health REAL NOT NULL,
		hunger REAL NOT NULL,
		happiness REAL NOT NULL,
		partner_id INTEGER,
		skills_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS traders (
		id TEXT PRIMARY KEY,
		person_id INTEGER NOT NULL,
		home_id INTEGER NOT NULL,
		state TEXT NOT NULL,
		purse INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		loc_q INTEGER NOT NULL,
		loc_r INTEGER NOT NULL,
		buy_from INTEGER NOT NULL,
		sell_to INTEGER NOT NULL,
		material TEXT NOT NULL,
		plan_qty INTEGER NOT NULL,
		cargo_json TEXT NOT NULL,
		path_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_people_settlement ON people(settlement_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSettlements writes all settlements, their stockpiles, and their
// running production jobs (full replace).
func (db *DB) SaveSettlements(settlements []*social.Settlement) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settlements"); err != nil {
		return err
	}

	for _, s := range settlements {
		buildingsJSON, _ := json.Marshal(s.Buildings)
		stockJSON, _ := json.Marshal(s.Ledger.Stock())
		jobsJSON, _ := json.Marshal(s.Ledger.Jobs())

		_, err := tx.Exec(`INSERT INTO settlements
			(id, name, kind, center_q, center_r, housing, capacity, treasury,
			 day_count, buildings_json, stock_json, jobs_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Kind, s.Center.Q, s.Center.R, s.Housing,
			s.Ledger.Capacity(), s.Ledger.Money(), s.People.DayCount(),
			string(buildingsJSON), string(stockJSON), string(jobsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert settlement %d: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// SavePeople writes every settlement's population (full replace).
func (db *DB) SavePeople(settlements []*social.Settlement) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM people"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO people
		(id, settlement_id, name, age, sex, health, hunger, happiness,
		 partner_id, skills_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range settlements {
		for _, p := range s.People.People() {
			skillsJSON, _ := json.Marshal(p.Skills)
			_, err := stmt.Exec(
				p.ID, p.SettlementID, p.Name, p.Age, p.Sex,
				p.Health, p.Hunger, p.Happiness, p.PartnerID,
				string(skillsJSON),
			)
			if err != nil {
				return fmt.Errorf("insert person %d: %w", p.ID, err)
			}
		}
	}

	return tx.Commit()
}

// SaveTraders writes the active trader fleet (full replace).
func (db *DB) SaveTraders(traders []*trade.Trader) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM traders"); err != nil {
		return err
	}

	for _, t := range traders {
		cargoJSON, _ := json.Marshal(t.Cargo)
		pathJSON, _ := json.Marshal(t.Path)

		_, err := tx.Exec(`INSERT INTO traders
			(id, person_id, home_id, state, purse, capacity, loc_q, loc_r,
			 buy_from, sell_to, material, plan_qty, cargo_json, path_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID.String(), t.PersonID, t.HomeID, string(t.State), t.Purse,
			t.Capacity, t.Location.Q, t.Location.R, t.BuyFrom, t.SellTo,
			t.Material.String(), t.PlanQty, string(cargoJSON), string(pathJSON),
		)
		if err != nil {
			return fmt.Errorf("insert trader %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveWorldState performs a full save of all world state.
func (db *DB) SaveWorldState(sim *engine.Simulation, seed int64) error {
	slog.Info("saving world state", "settlements", len(sim.Settlements), "tick", sim.CurrentTick())

	if err := db.SaveSettlements(sim.Settlements); err != nil {
		return fmt.Errorf("save settlements: %w", err)
	}
	if err := db.SavePeople(sim.Settlements); err != nil {
		return fmt.Errorf("save people: %w", err)
	}
	if err := db.SaveTraders(sim.Trade.Traders()); err != nil {
		return fmt.Errorf("save traders: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", strconv.FormatUint(sim.CurrentTick(), 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("world_seed", strconv.FormatInt(seed, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("world state saved")
	return nil
}

type settlementRow struct {
	ID            uint64 `db:"id"`
	Name          string `db:"name"`
	Kind          uint8  `db:"kind"`
	CenterQ       int    `db:"center_q"`
	CenterR       int    `db:"center_r"`
	Housing       int    `db:"housing"`
	Capacity      int    `db:"capacity"`
	Treasury      uint64 `db:"treasury"`
	DayCount      int    `db:"day_count"`
	BuildingsJSON string `db:"buildings_json"`
	StockJSON     string `db:"stock_json"`
	JobsJSON      string `db:"jobs_json"`
}

type personRow struct {
	ID           uint64  `db:"id"`
	SettlementID uint64  `db:"settlement_id"`
	Name         string  `db:"name"`
	Age          uint16  `db:"age"`
	Sex          uint8   `db:"sex"`
	Health       float64 `db:"health"`
	Hunger       float64 `db:"hunger"`
	Happiness    float64 `db:"happiness"`
	PartnerID    *uint64 `db:"partner_id"`
	SkillsJSON   string  `db:"skills_json"`
}

type traderRow struct {
	ID        string `db:"id"`
	PersonID  uint64 `db:"person_id"`
	HomeID    uint64 `db:"home_id"`
	State     string `db:"state"`
	Purse     uint64 `db:"purse"`
	Capacity  int    `db:"capacity"`
	LocQ      int    `db:"loc_q"`
	LocR      int    `db:"loc_r"`
	BuyFrom   uint64 `db:"buy_from"`
	SellTo    uint64 `db:"sell_to"`
	Material  string `db:"material"`
	PlanQty   int    `db:"plan_qty"`
	CargoJSON string `db:"cargo_json"`
	PathJSON  string `db:"path_json"`
}

// LoadWorldState restores a saved world: the map is regenerated from the
// stored seed, then settlements, populations, and traders are rebuilt on
// top of it. Returns the simulation and the tick it was saved at.
func (db *DB) LoadWorldState(cfg world.GenConfig, cat *catalog.Catalog) (*engine.Simulation, uint64, error) {
	seedStr, err := db.GetMeta("world_seed")
	if err != nil {
		return nil, 0, fmt.Errorf("load seed: %w", err)
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("parse seed: %w", err)
	}
	cfg.Seed = seed

	m := world.Generate(cfg)
	spawner := population.NewSpawner(seed)

	var settRows []settlementRow
	if err := db.conn.Select(&settRows, "SELECT * FROM settlements ORDER BY id"); err != nil {
		return nil, 0, fmt.Errorf("load settlements: %w", err)
	}

	var setts []*social.Settlement
	centers := make(map[uint64]world.HexCoord, len(settRows))
	regByID := make(map[uint64]*population.Registry, len(settRows))

	for _, row := range settRows {
		center := world.HexCoord{Q: row.CenterQ, R: row.CenterR}
		centers[row.ID] = center
		if hex := m.Get(center); hex != nil {
			sid := row.ID
			hex.SettlementID = &sid
		}

		var buildings []world.Building
		if err := json.Unmarshal([]byte(row.BuildingsJSON), &buildings); err != nil {
			return nil, 0, fmt.Errorf("settlement %d buildings: %w", row.ID, err)
		}

		led := ledger.New(row.ID, row.Capacity)
		led.AddMoney(row.Treasury)

		var stock []goods.Stack
		if err := json.Unmarshal([]byte(row.StockJSON), &stock); err != nil {
			return nil, 0, fmt.Errorf("settlement %d stock: %w", row.ID, err)
		}
		for _, s := range stock {
			led.Add(s.Material, s.Qty)
		}

		var jobs []*ledger.Job
		if err := json.Unmarshal([]byte(row.JobsJSON), &jobs); err != nil {
			return nil, 0, fmt.Errorf("settlement %d jobs: %w", row.ID, err)
		}
		for _, j := range jobs {
			led.RestoreJob(j)
		}

		reg := population.NewRegistry(row.ID, spawner, seed, population.DefaultConfig())
		reg.SetDayCount(row.DayCount)
		regByID[row.ID] = reg

		setts = append(setts, &social.Settlement{
			ID:        row.ID,
			Name:      row.Name,
			Kind:      world.SettlementSize(row.Kind),
			Center:    center,
			Housing:   row.Housing,
			Buildings: buildings,
			Ledger:    led,
			People:    reg,
		})
	}

	var peopleRows []personRow
	if err := db.conn.Select(&peopleRows, "SELECT * FROM people ORDER BY id"); err != nil {
		return nil, 0, fmt.Errorf("load people: %w", err)
	}

	maxID := population.PersonID(0)
	for _, row := range peopleRows {
		reg := regByID[row.SettlementID]
		if reg == nil {
			continue
		}
		skills := make(map[world.JobKind]float64)
		if err := json.Unmarshal([]byte(row.SkillsJSON), &skills); err != nil {
			return nil, 0, fmt.Errorf("person %d skills: %w", row.ID, err)
		}
		p := &population.Person{
			ID:           population.PersonID(row.ID),
			Name:         row.Name,
			Age:          row.Age,
			Sex:          population.Sex(row.Sex),
			SettlementID: row.SettlementID,
			Skills:       skills,
			Health:       row.Health,
			Hunger:       row.Hunger,
			Happiness:    row.Happiness,
		}
		if row.PartnerID != nil {
			pid := population.PersonID(*row.PartnerID)
			p.PartnerID = &pid
		}
		reg.Add(p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	spawner.SetNextID(maxID + 1)

	routes := world.BuildRouteTable(m, centers)
	sim := engine.NewSimulation(m, setts, routes, cat, seed)

	var traderRows []traderRow
	if err := db.conn.Select(&traderRows, "SELECT * FROM traders ORDER BY id"); err != nil {
		return nil, 0, fmt.Errorf("load traders: %w", err)
	}
	for _, row := range traderRows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("trader id %q: %w", row.ID, err)
		}
		mat, err := goods.Parse(row.Material)
		if err != nil {
			return nil, 0, fmt.Errorf("trader %s material: %w", row.ID, err)
		}
		var cargo []goods.Stack
		if err := json.Unmarshal([]byte(row.CargoJSON), &cargo); err != nil {
			return nil, 0, fmt.Errorf("trader %s cargo: %w", row.ID, err)
		}
		var path []world.HexCoord
		if err := json.Unmarshal([]byte(row.PathJSON), &path); err != nil {
			return nil, 0, fmt.Errorf("trader %s path: %w", row.ID, err)
		}

		t := &trade.Trader{
			ID:       id,
			PersonID: population.PersonID(row.PersonID),
			HomeID:   row.HomeID,
			State:    trade.State(row.State),
			Purse:    row.Purse,
			Cargo:    cargo,
			Capacity: row.Capacity,
			Location: world.HexCoord{Q: row.LocQ, R: row.LocR},
			Path:     path,
			BuyFrom:  row.BuyFrom,
			SellTo:   row.SellTo,
			Material: mat,
			PlanQty:  row.PlanQty,
		}
		sim.Trade.Restore(t)

		// The backing person is on the road; keep them out of the labor pool.
		if reg := regByID[row.HomeID]; reg != nil {
			if p, ok := reg.ByID(t.PersonID); ok {
				p.AssignJob(world.JobMerchant, nil)
			}
		}
	}

	lastTick := uint64(0)
	if tickStr, err := db.GetMeta("last_tick"); err == nil {
		lastTick, _ = strconv.ParseUint(tickStr, 10, 64)
	}

	slog.Info("world state loaded",
		"settlements", len(setts),
		"people", len(peopleRows),
		"traders", len(traderRows),
		"tick", lastTick,
	)
	return sim, lastTick, nil
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
