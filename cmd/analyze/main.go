// Command analyze prints quick, human-readable heuristics about the level
// files in the project's levels directory. It summarizes grid dimensions,
// turn budgets, the drone census by policy, and the threat at game start,
// and warns about tight budgets and heavily guarded goals or entry cells.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/dronemaze/game/engine"
)

func main() {
	levelsDir := "levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelsDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		return
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeLevel(levelsDir, strings.TrimSuffix(filepath.Base(file), ".json"))
	}
}

// analyzeLevel loads one level and prints its census and authoring warnings.
func analyzeLevel(levelsDir, id string) {
	cfg, err := engine.LoadLevelFile(levelsDir, id)
	if err != nil {
		fmt.Printf("Error loading level: %v\n", err)
		return
	}

	state := engine.BuildState(cfg)

	fmt.Printf("Name: %s (level %d)\n", cfg.Name, cfg.Number)
	fmt.Printf("Grid: %d x %d\n", cfg.GridRows, cfg.GridCols)
	fmt.Printf("Start Box: %s edge, offset %d\n", cfg.StartBox.Edge, cfg.StartBox.Offset)
	fmt.Printf("Goal: (%d, %d)\n", cfg.Goal.Row, cfg.Goal.Col)

	shortest := engine.MinTurnsToGoal(cfg)
	if cfg.MaxTurns > 0 {
		fmt.Printf("Turn Budget: %d (shortest path %d, slack %d)\n", cfg.MaxTurns, shortest, cfg.MaxTurns-shortest)
	} else {
		fmt.Printf("Turn Budget: unlimited (shortest path %d)\n", shortest)
	}

	fmt.Printf("Drones: %s\n", droneCensus(state))

	if pos, symbol, dist, ok := engine.FindNearestDrone(state); ok {
		fmt.Printf("Nearest Drone at Start: %s at (%d, %d), %d squares from the box\n", symbol, pos.Row, pos.Col, dist)
	}
	fmt.Printf("Initial Threat: %s\n", engine.AnalyzeThreat(state))

	warnings := collectWarnings(cfg, state)
	if len(warnings) == 0 {
		fmt.Println("✅ No authoring concerns found")
		return
	}
	for _, w := range warnings {
		fmt.Printf("⚠️  WARNING: %s\n", w)
	}
}

// droneCensus summarizes the drone population by policy.
func droneCensus(state *engine.GameState) string {
	total := engine.CountDrones(state)
	if total == 0 {
		return "none"
	}

	var parts []string
	for _, kind := range []engine.PolicyKind{engine.PolicyStationary, engine.PolicyPatrol, engine.PolicyChase, engine.PolicyRandom} {
		if n := engine.CountPolicy(state, kind); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind))
		}
	}
	return fmt.Sprintf("%d total (%s)", total, strings.Join(parts, ", "))
}

// collectWarnings flags authoring concerns: turn budgets that are below or
// barely above the shortest path, drones guarding the goal, and drones
// camped next to the entry cell.
func collectWarnings(cfg *engine.LevelConfig, state *engine.GameState) []string {
	var warnings []string

	shortest := engine.MinTurnsToGoal(cfg)
	if cfg.MaxTurns > 0 {
		slack := cfg.MaxTurns - shortest
		if slack < 0 {
			warnings = append(warnings, fmt.Sprintf("max_turns %d is below the shortest possible path of %d moves", cfg.MaxTurns, shortest))
		} else if slack < 5 {
			warnings = append(warnings, fmt.Sprintf("tight turn budget - only %d spare turns over the shortest path", slack))
		}
	}

	entry := entryCell(cfg)
	goalGuards := 0
	entryGuards := 0
	for _, d := range state.AllDrones() {
		if engine.ManhattanDistance(d.Position, cfg.Goal) <= 2 {
			goalGuards++
		}
		if engine.ManhattanDistance(d.Position, entry) <= 1 {
			entryGuards++
		}
	}
	if goalGuards > 0 {
		warnings = append(warnings, fmt.Sprintf("%d drones spawn within 2 squares of the goal", goalGuards))
	}
	if entryGuards > 0 {
		warnings = append(warnings, fmt.Sprintf("%d drones spawn next to the entry cell", entryGuards))
	}

	return warnings
}

// entryCell is the grid cell the player steps onto when leaving the start box.
func entryCell(cfg *engine.LevelConfig) engine.Position {
	switch cfg.StartBox.Edge {
	case engine.EdgeAbove:
		return engine.Position{Row: 0, Col: cfg.StartBox.Offset}
	case engine.EdgeBelow:
		return engine.Position{Row: cfg.GridRows - 1, Col: cfg.StartBox.Offset}
	case engine.EdgeLeft:
		return engine.Position{Row: cfg.StartBox.Offset, Col: 0}
	default:
		return engine.Position{Row: cfg.StartBox.Offset, Col: cfg.GridCols - 1}
	}
}
