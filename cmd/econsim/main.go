// Command econsim runs the Crossland settlement economy simulation.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"log/slog"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/crossland/internal/catalog"
	"github.com/talgya/crossland/internal/engine"
	"github.com/talgya/crossland/internal/goods"
	"github.com/talgya/crossland/internal/persistence"
	"github.com/talgya/crossland/internal/world"
)

var (
	seed       int64
	days       int
	radius     int
	dbPath     string
	configsDir string
	snapPath   string
	saveEvery  int
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "econsim",
		Short: "Crossland settlement economy simulation",
		Long: `A deterministic hex-world economy: settlements produce, consume,
and trade goods over a road network, with populations that eat, work,
breed, and die.`,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		RunE:  runSim,
	}
	runCmd.Flags().Int64Var(&seed, "seed", 42, "World generation seed")
	runCmd.Flags().IntVar(&days, "days", 0, "Days to simulate (0 = run until interrupted)")
	runCmd.Flags().IntVar(&radius, "radius", 0, "Map radius override (0 = default)")
	runCmd.Flags().StringVar(&dbPath, "db", "data/crossland.db", "SQLite database path")
	runCmd.Flags().StringVar(&configsDir, "configs", "configs", "Directory holding recipes.yaml")
	runCmd.Flags().StringVar(&snapPath, "snapshot", "", "Write a compressed snapshot here on exit")
	runCmd.Flags().IntVar(&saveEvery, "save-every", 30, "Autosave interval in sim-days")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print settlement and event tables from a saved world",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&dbPath, "db", "data/crossland.db", "SQLite database path")

	rootCmd.AddCommand(runCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	if tuning := filepath.Join(configsDir, "materials.yaml"); fileExists(tuning) {
		if err := goods.ApplyTuning(tuning); err != nil {
			return fmt.Errorf("load material tuning: %w", err)
		}
		slog.Info("material tuning applied", "path", tuning)
	}

	cat, err := catalog.Load(filepath.Join(configsDir, "recipes.yaml"))
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}
	slog.Info("recipe catalog loaded", "recipes", cat.Len())

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return err
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	if radius > 0 {
		cfg.Radius = radius
	}

	var sim *engine.Simulation
	var startTick uint64
	if _, err := db.GetMeta("world_seed"); err == nil {
		slog.Info("found saved world state, loading")
		sim, startTick, err = db.LoadWorldState(cfg, cat)
		if err != nil {
			return fmt.Errorf("load world: %w", err)
		}
	} else {
		slog.Info("generating new world", "seed", seed)
		sim = engine.BuildWorld(cfg, cat)
		for t, c := range world.TerrainCounts(sim.WorldMap) {
			slog.Info("terrain", "type", world.TerrainName(t), "count", c)
		}
	}

	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if saveEvery > 0 && tick%uint64(saveEvery) == 0 {
			if err := db.SaveWorldState(sim, seed); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	}
	eng.OnSeason = func(tick uint64) {
		slog.Info("season turned", "time", engine.SimTime(tick))
	}

	if days > 0 {
		eng.RunFor(days)
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutdown signal received")
			eng.Stop()
		}()
		eng.Run()
	}

	if err := db.SaveWorldState(sim, seed); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	if snapPath != "" {
		if err := persistence.ExportSnapshot(snapPath, sim); err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		slog.Info("snapshot written", "path", snapPath)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	seedStr, err := db.GetMeta("world_seed")
	if err != nil {
		return fmt.Errorf("no saved world in %s", dbPath)
	}
	savedSeed, _ := strconv.ParseInt(seedStr, 10, 64)

	catPath := filepath.Join("configs", "recipes.yaml")
	cat, err := catalog.Load(catPath)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	cfg := world.DefaultGenConfig()
	cfg.Seed = savedSeed
	sim, tick, err := db.LoadWorldState(cfg, cat)
	if err != nil {
		return fmt.Errorf("load world: %w", err)
	}

	fmt.Printf("World at %s (tick %d)\n\n", engine.SimTime(tick), tick)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Settlement", "Kind", "Population", "Treasury", "Stock", "Avg Health", "Avg Hunger"}),
	)
	for _, s := range sim.Settlements {
		_ = table.Append([]string{
			s.Name,
			s.KindName(),
			strconv.Itoa(s.People.Len()),
			strconv.FormatUint(s.Ledger.Money(), 10),
			fmt.Sprintf("%d/%d", s.Ledger.TotalStock(), s.Ledger.Capacity()),
			fmt.Sprintf("%.1f", s.People.AverageHealth()),
			fmt.Sprintf("%.1f", s.People.AverageHunger()),
		})
	}
	_ = table.Render()

	// Markets are not persisted; recompute them for the price table.
	for _, s := range sim.Settlements {
		s.Market.Update(s.Ledger, s.People, s.Buildings, cat)
	}
	header := []string{"Material"}
	for _, s := range sim.Settlements {
		header = append(header, s.Name)
	}
	fmt.Println("\nMarket prices:")
	priceTable := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, m := range goods.All() {
		row := []string{m.String()}
		for _, s := range sim.Settlements {
			row = append(row, fmt.Sprintf("%.1f", s.Market.Price(m)))
		}
		_ = priceTable.Append(row)
	}
	_ = priceTable.Render()

	events, err := db.RecentEvents(15)
	if err == nil && len(events) > 0 {
		fmt.Println("\nRecent events:")
		evTable := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Tick", "Category", "Description"}),
		)
		for _, e := range events {
			_ = evTable.Append([]string{
				strconv.FormatUint(e.Tick, 10),
				e.Category,
				e.Description,
			})
		}
		_ = evTable.Render()
	}
	return nil
}
