package main

import (
	"encoding/json"
	"testing"
)

// testView builds a GameView from a literal grid, deriving the drone list
// the same way the client does.
func testView(grid [][]string, player, box Position) *GameView {
	return &GameView{
		Grid:      grid,
		PlayerPos: player,
		StartBox:  StartBox{Position: box, Symbol: "."},
		Drones:    dronePositions(grid, nil),
	}
}

func emptyGrid(rows, cols int) [][]string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = "."
		}
	}
	return grid
}

func TestPositionUnmarshalJSON(t *testing.T) {
	var p Position
	if err := json.Unmarshal([]byte("[2,3]"), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Row != 2 || p.Col != 3 {
		t.Errorf("Expected (2,3), got %s", p)
	}

	if err := json.Unmarshal([]byte(`"nope"`), &p); err == nil {
		t.Error("Expected error for non-array position")
	}
}

func TestDronePositions(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[0][0] = "T1"
	grid[1][1] = "*"
	grid[2][2] = "X"

	moves := []DroneMove{
		{Symbol: "T1", From: Position{Row: 0, Col: 1}, To: Position{Row: 0, Col: 0}},
		{Symbol: "T2", From: Position{Row: -1, Col: 0}, To: Position{Row: -1, Col: 0}},
	}

	drones := dronePositions(grid, moves)
	if len(drones) != 3 {
		t.Fatalf("Expected 3 drones, got %d: %v", len(drones), drones)
	}

	want := map[Position]bool{
		{Row: 0, Col: 0}:  true,
		{Row: 1, Col: 1}:  true,
		{Row: -1, Col: 0}: true,
	}
	for _, d := range drones {
		if !want[d] {
			t.Errorf("Unexpected drone at %s", d)
		}
	}
}

func TestEntryFromBox(t *testing.T) {
	tests := []struct {
		name     string
		box      Position
		entry    Position
		dir      string
	}{
		{"above", Position{Row: -1, Col: 2}, Position{Row: 0, Col: 2}, "down"},
		{"below", Position{Row: 5, Col: 1}, Position{Row: 4, Col: 1}, "up"},
		{"left", Position{Row: 3, Col: -1}, Position{Row: 3, Col: 0}, "right"},
		{"right", Position{Row: 0, Col: 5}, Position{Row: 0, Col: 4}, "left"},
	}

	for _, test := range tests {
		entry, dir := entryFromBox(test.box, 5, 5)
		if entry != test.entry || dir != test.dir {
			t.Errorf("%s: entryFromBox(%s) = %s via %s, expected %s via %s",
				test.name, test.box, entry, dir, test.entry, test.dir)
		}
	}
}

func TestOpposite(t *testing.T) {
	tests := []struct {
		dir      string
		expected string
	}{
		{"up", "down"},
		{"down", "up"},
		{"left", "right"},
		{"right", "left"},
		{"diagonal", "stay"},
	}

	for _, test := range tests {
		if result := opposite(test.dir); result != test.expected {
			t.Errorf("opposite(%s) = %s, expected %s", test.dir, result, test.expected)
		}
	}
}

func TestNewAttempt_Variation(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	s := NewDodgeStrategy(testView(grid, Position{Row: -1, Col: 0}, Position{Row: -1, Col: 0}))

	s.NewAttempt(2)
	if s.waitTurns != 1 {
		t.Errorf("Expected waitTurns 1 for attempt 2, got %d", s.waitTurns)
	}
	if s.dirOrder[0] != "right" {
		t.Errorf("Expected rotated direction order for attempt 2, got %v", s.dirOrder)
	}

	s.NewAttempt(5)
	if s.waitTurns != 0 {
		t.Errorf("Expected waitTurns 0 for attempt 5, got %d", s.waitTurns)
	}
	if s.dirOrder[0] != "down" {
		t.Errorf("Expected base direction order for attempt 5, got %v", s.dirOrder)
	}
}

func TestNextMove_EntersWhenClear(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	if move := s.NextMove(testView(grid, box, box)); move != "down" {
		t.Errorf("Expected 'down' out of the box, got '%s'", move)
	}
}

func TestNextMove_WaitsWhileEntryThreatened(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	grid[1][0] = "T1" // one step below the entry cell (0,0)
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	if move := s.NextMove(testView(grid, box, box)); move != "stay" {
		t.Errorf("Expected 'stay' while the entry cell is threatened, got '%s'", move)
	}
}

func TestNextMove_WaitsOutOpeningDelay(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))
	s.NewAttempt(3) // two turns of opening delay

	view := testView(grid, box, box)
	if move := s.NextMove(view); move != "stay" {
		t.Errorf("Expected 'stay' on delay turn 1, got '%s'", move)
	}
	if move := s.NextMove(view); move != "stay" {
		t.Errorf("Expected 'stay' on delay turn 2, got '%s'", move)
	}
	if move := s.NextMove(view); move != "down" {
		t.Errorf("Expected 'down' after the delay, got '%s'", move)
	}
}

func TestNextMove_RoutesAroundDrone(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[0][2] = "X"
	grid[0][1] = "T1"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	// Moving right would step onto the drone; the detour starts downward
	move := s.NextMove(testView(grid, Position{Row: 0, Col: 0}, box))
	if move != "down" {
		t.Errorf("Expected 'down' around the drone, got '%s'", move)
	}
}

func TestDangerZones_GoalStaysOpen(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	grid[2][1] = "T1" // adjacent to the goal
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	danger := s.dangerZones([]Position{{Row: 2, Col: 1}}, true)
	if danger[Position{Row: 2, Col: 2}] {
		t.Error("Goal cell should never be marked dangerous while unoccupied")
	}
	if !danger[Position{Row: 2, Col: 1}] {
		t.Error("Occupied cell should be dangerous")
	}
	if !danger[Position{Row: 1, Col: 1}] {
		t.Error("Cell above a mobile drone should be dangerous")
	}
}

func TestDangerZones_ParkedDroneDoesNotInflate(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	drones := []Position{{Row: 1, Col: 1}}
	for i := 0; i < parkedThreshold; i++ {
		s.observe(drones)
	}

	danger := s.dangerZones(drones, true)
	if len(danger) != 1 || !danger[Position{Row: 1, Col: 1}] {
		t.Errorf("Expected only the parked cell to be dangerous, got %v", danger)
	}
}

func TestBFS(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	path := s.BFS(Position{Row: 0, Col: 0}, Position{Row: 2, Col: 2}, nil)
	if len(path) != 4 {
		t.Errorf("Expected a 4-step path, got %v", path)
	}

	// Wall of blocked cells splits the grid
	blocked := map[Position]bool{
		{Row: 0, Col: 1}: true,
		{Row: 1, Col: 1}: true,
		{Row: 2, Col: 1}: true,
	}
	if path := s.BFS(Position{Row: 0, Col: 0}, Position{Row: 2, Col: 2}, blocked); path != nil {
		t.Errorf("Expected no path through the wall, got %v", path)
	}

	if path := s.BFS(Position{Row: 1, Col: 1}, Position{Row: 1, Col: 1}, nil); len(path) != 0 {
		t.Errorf("Expected empty path to own cell, got %v", path)
	}
}

func TestExploreMove_RetreatsToBox(t *testing.T) {
	grid := emptyGrid(3, 3)
	grid[2][2] = "X"
	box := Position{Row: -1, Col: 0}
	s := NewDodgeStrategy(testView(grid, box, box))

	// Every in-grid neighbor of the entry cell is dangerous
	danger := map[Position]bool{
		{Row: 1, Col: 0}: true,
		{Row: 0, Col: 1}: true,
	}
	view := testView(grid, Position{Row: 0, Col: 0}, box)

	if move := s.exploreMove(view, danger); move != "up" {
		t.Errorf("Expected retreat 'up' into the box, got '%s'", move)
	}
}
