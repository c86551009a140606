package main

import "log"

// parkedThreshold is how many consecutive turns a cell must stay occupied
// before its drone is treated as parked.
const parkedThreshold = 3

// DodgeStrategy replans a route to the goal every turn, steering around the
// cells drones occupy and the cells they could step into. Attempts vary the
// opening delay in the start box and the direction tie-break order, so
// retries meet deterministic patrol cycles at different phases.
type DodgeStrategy struct {
	rows, cols int
	goal       Position
	boxPos     Position
	entry      Position
	entryDir   string

	// Attempt variation
	waitTurns int
	dirOrder  []string

	// State tracking
	visitedCells   map[Position]int
	occupiedStreak map[Position]int
	stuckCount     int
}

func NewDodgeStrategy(state *GameView) *DodgeStrategy {
	s := &DodgeStrategy{
		rows:   len(state.Grid),
		boxPos: state.StartBox.Position,
	}
	if s.rows > 0 {
		s.cols = len(state.Grid[0])
	}

	for r, row := range state.Grid {
		for c, cell := range row {
			if cell == "X" {
				s.goal = Position{Row: r, Col: c}
			}
		}
	}

	s.entry, s.entryDir = entryFromBox(s.boxPos, s.rows, s.cols)
	s.NewAttempt(1)

	log.Printf("📊 Dodge strategy: %dx%d grid, goal %s, entry %s via %s",
		s.rows, s.cols, s.goal, s.entry, s.entryDir)

	return s
}

// entryFromBox derives the first in-grid cell and the direction that enters
// it from the virtual start box coordinate.
func entryFromBox(box Position, rows, cols int) (Position, string) {
	switch {
	case box.Row < 0:
		return Position{Row: 0, Col: box.Col}, "down"
	case box.Row >= rows:
		return Position{Row: rows - 1, Col: box.Col}, "up"
	case box.Col < 0:
		return Position{Row: box.Row, Col: 0}, "right"
	default:
		return Position{Row: box.Row, Col: cols - 1}, "left"
	}
}

// NewAttempt resets per-run tracking and shifts the attempt variation.
func (s *DodgeStrategy) NewAttempt(n int) {
	s.waitTurns = (n - 1) % 4
	s.visitedCells = make(map[Position]int)
	s.occupiedStreak = make(map[Position]int)
	s.stuckCount = 0

	// Rotate the tie-break order so each retry explores differently
	base := []string{"down", "right", "up", "left"}
	off := (n - 1) % len(base)
	s.dirOrder = append(append([]string{}, base[off:]...), base[:off]...)
}

// NextMove picks one direction for the current turn, or "" to give up.
func (s *DodgeStrategy) NextMove(state *GameView) string {
	s.visitedCells[state.PlayerPos]++
	s.observe(state.Drones)

	danger := s.dangerZones(state.Drones, true)

	if state.PlayerPos == s.boxPos {
		// Hold in the box through this attempt's opening delay, and while
		// the entry cell is threatened
		if s.waitTurns > 0 {
			s.waitTurns--
			return "stay"
		}
		if danger[s.entry] {
			return "stay"
		}
		return s.entryDir
	}

	if path := s.BFS(state.PlayerPos, s.goal, danger); len(path) > 0 {
		s.stuckCount = 0
		return path[0]
	}

	// No route clears every threatened cell. Fall back to dodging only the
	// occupied ones and keep moving.
	loose := s.dangerZones(state.Drones, false)
	if path := s.BFS(state.PlayerPos, s.goal, loose); len(path) > 0 {
		s.stuckCount++
		return path[0]
	}

	// Boxed in. Hold for a few turns, then wander toward less visited cells.
	s.stuckCount++
	if s.stuckCount > 4 {
		return s.exploreMove(state, danger)
	}
	return "stay"
}

// observe updates the occupancy streaks used to classify parked drones.
func (s *DodgeStrategy) observe(drones []Position) {
	seen := make(map[Position]bool, len(drones))
	for _, d := range drones {
		seen[d] = true
		s.occupiedStreak[d]++
	}
	for pos := range s.occupiedStreak {
		if !seen[pos] {
			delete(s.occupiedStreak, pos)
		}
	}
}

// dangerZones marks the cells drones occupy, plus every cell a moving drone
// could step into when inflate is set. Cells whose occupant has not moved
// for parkedThreshold turns only block themselves. The goal is never marked
// while it is unoccupied: reaching it wins before the drones respond.
func (s *DodgeStrategy) dangerZones(drones []Position, inflate bool) map[Position]bool {
	occupied := make(map[Position]bool, len(drones))
	for _, d := range drones {
		occupied[d] = true
	}

	danger := make(map[Position]bool, len(drones))
	for _, d := range drones {
		danger[d] = true
		if !inflate || s.occupiedStreak[d] >= parkedThreshold {
			continue
		}
		for _, dir := range []string{"up", "down", "left", "right"} {
			if n := s.step(d, dir); s.inGrid(n) {
				danger[n] = true
			}
		}
	}

	if !occupied[s.goal] {
		delete(danger, s.goal)
	}
	return danger
}

// exploreMove wanders toward the least visited safe neighbor. When pinned at
// the entry cell it may retreat into the start box, which drones normally
// cannot enter.
func (s *DodgeStrategy) exploreMove(state *GameView, danger map[Position]bool) string {
	type dirScore struct {
		dir   string
		score int
	}

	var options []dirScore
	for _, dir := range s.dirOrder {
		newPos := s.step(state.PlayerPos, dir)
		if !s.inGrid(newPos) || danger[newPos] {
			continue
		}
		options = append(options, dirScore{dir: dir, score: s.visitedCells[newPos]})
	}
	if state.PlayerPos == s.entry && !danger[s.boxPos] {
		options = append(options, dirScore{dir: opposite(s.entryDir), score: s.visitedCells[s.boxPos]})
	}

	if len(options) == 0 {
		return "stay"
	}

	best := options[0]
	for _, opt := range options {
		if opt.score < best.score {
			best = opt
		}
	}
	return best.dir
}

func (s *DodgeStrategy) BFS(start, goal Position, blocked map[Position]bool) []string {
	if start == goal {
		return []string{}
	}

	type queueItem struct {
		pos  Position
		path []string
	}

	queue := []queueItem{{pos: start, path: []string{}}}
	visited := map[Position]bool{start: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range s.dirOrder {
			newPos := s.step(current.pos, dir)

			if visited[newPos] || !s.inGrid(newPos) || blocked[newPos] {
				continue
			}

			newPath := append(append([]string{}, current.path...), dir)
			if newPos == goal {
				return newPath
			}

			visited[newPos] = true
			queue = append(queue, queueItem{pos: newPos, path: newPath})
		}
	}

	return nil
}

func (s *DodgeStrategy) inGrid(pos Position) bool {
	return pos.Row >= 0 && pos.Row < s.rows && pos.Col >= 0 && pos.Col < s.cols
}

func (s *DodgeStrategy) step(pos Position, dir string) Position {
	switch dir {
	case "up":
		return Position{Row: pos.Row - 1, Col: pos.Col}
	case "down":
		return Position{Row: pos.Row + 1, Col: pos.Col}
	case "left":
		return Position{Row: pos.Row, Col: pos.Col - 1}
	case "right":
		return Position{Row: pos.Row, Col: pos.Col + 1}
	}
	return pos
}

func opposite(dir string) string {
	switch dir {
	case "up":
		return "down"
	case "down":
		return "up"
	case "left":
		return "right"
	case "right":
		return "left"
	}
	return "stay"
}
