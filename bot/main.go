// Command bot is a headless autoplayer that drives the game REST API. It
// creates (or resumes) a session, then replays the level with a
// drone-dodging route planner until it wins or runs out of attempts.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Position mirrors the server's wire format: a [row, col] pair.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var rc [2]int
	if err := json.Unmarshal(data, &rc); err != nil {
		return err
	}
	p.Row, p.Col = rc[0], rc[1]
	return nil
}

type StartBox struct {
	Position Position `json:"position"`
	Symbol   string   `json:"symbol"`
}

type DroneView struct {
	Symbol   string   `json:"symbol"`
	Position Position `json:"position"`
}

type DroneMove struct {
	Symbol string   `json:"symbol"`
	From   Position `json:"from"`
	To     Position `json:"to"`
}

// GameView is the merged state the strategy consumes, assembled from the
// state, move and reset responses.
type GameView struct {
	LevelName string
	Grid      [][]string
	PlayerPos Position
	StartBox  StartBox
	Drones    []Position
	Turn      int
	MaxTurns  int
	GameOver  bool
	Won       bool
	Outcome   string
	Message   string
	Rejected  bool
	Reason    string
}

// dronePositions scans the display grid for drone cells and merges in the
// destinations of the reported drone moves. Drones parked outside the grid
// (a level with an open start box) only show up in the move list.
func dronePositions(grid [][]string, moves []DroneMove) []Position {
	seen := make(map[Position]bool)
	var drones []Position
	for r, row := range grid {
		for c, cell := range row {
			switch cell {
			case ".", "P", "X":
				continue
			}
			pos := Position{Row: r, Col: c}
			if !seen[pos] {
				seen[pos] = true
				drones = append(drones, pos)
			}
		}
	}
	for _, mv := range moves {
		if !seen[mv.To] {
			seen[mv.To] = true
			drones = append(drones, mv.To)
		}
	}
	return drones
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(levelID string) error {
	var reqBody []byte
	var err error

	if levelID != "" {
		reqBody, err = json.Marshal(map[string]string{"level_id": levelID})
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session struct {
		ID      string `json:"id"`
		LevelID string `json:"level_id"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return nil
}

func (c *Client) GetState() (*GameView, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/game_state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state struct {
		LevelName string      `json:"level_name"`
		Grid      [][]string  `json:"grid"`
		StartBox  StartBox    `json:"start_box"`
		PlayerPos Position    `json:"player_pos"`
		Turn      int         `json:"turn"`
		MaxTurns  int         `json:"max_turns"`
		Message   string      `json:"message"`
		GameOver  bool        `json:"game_over"`
		Won       bool        `json:"won"`
		Outcome   string      `json:"outcome"`
		Drones    []DroneView `json:"drones"`
	}
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	drones := make([]Position, 0, len(state.Drones))
	for _, d := range state.Drones {
		drones = append(drones, d.Position)
	}

	return &GameView{
		LevelName: state.LevelName,
		Grid:      state.Grid,
		PlayerPos: state.PlayerPos,
		StartBox:  state.StartBox,
		Drones:    drones,
		Turn:      state.Turn,
		MaxTurns:  state.MaxTurns,
		GameOver:  state.GameOver,
		Won:       state.Won,
		Outcome:   state.Outcome,
		Message:   state.Message,
	}, nil
}

func (c *Client) Move(direction string) (*GameView, error) {
	reqBody, err := json.Marshal(map[string]string{"move": direction})
	if err != nil {
		return nil, fmt.Errorf("marshal move: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/move", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("execute move: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("move failed: %s - %s", resp.Status, string(body))
	}

	var result struct {
		Message    string      `json:"message"`
		GameOver   bool        `json:"game_over"`
		Won        bool        `json:"won"`
		Outcome    string      `json:"outcome"`
		Rejected   bool        `json:"rejected"`
		Reason     string      `json:"reason"`
		Turn       int         `json:"turn"`
		PlayerPos  Position    `json:"player_pos"`
		StartBox   StartBox    `json:"start_box"`
		Grid       [][]string  `json:"grid"`
		DroneMoves []DroneMove `json:"drone_moves"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse move response: %w", err)
	}

	return &GameView{
		Grid:      result.Grid,
		PlayerPos: result.PlayerPos,
		StartBox:  result.StartBox,
		Drones:    dronePositions(result.Grid, result.DroneMoves),
		Turn:      result.Turn,
		GameOver:  result.GameOver,
		Won:       result.Won,
		Outcome:   result.Outcome,
		Message:   result.Message,
		Rejected:  result.Rejected,
		Reason:    result.Reason,
	}, nil
}

func (c *Client) Reset() (*GameView, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reset failed: %s - %s", resp.Status, string(body))
	}

	var result struct {
		Message   string     `json:"message"`
		Grid      [][]string `json:"grid"`
		PlayerPos Position   `json:"player_pos"`
		StartBox  StartBox   `json:"start_box"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return &GameView{
		Grid:      result.Grid,
		PlayerPos: result.PlayerPos,
		StartBox:  result.StartBox,
		Drones:    dronePositions(result.Grid, nil),
		Message:   result.Message,
	}, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	levelID := flag.String("level", "", "Level ID to play (empty = server default)")
	continueSession := flag.String("continue", "", "Resume an existing session by ID")
	maxMoves := flag.Int("max-moves", 500, "Maximum moves per attempt")
	maxAttempts := flag.Int("max-attempts", 25, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	var state *GameView
	var err error

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		if err := client.CreateSession(*levelID); err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)

		// Save session ID for next run
		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}

		state, err = client.GetState()
		if err != nil {
			log.Fatalf("Failed to fetch game state: %v", err)
		}
	}

	maxTurns := state.MaxTurns
	log.Printf("Level: %s - Grid: %dx%d, Drones: %d, Max turns: %d",
		state.LevelName, len(state.Grid), len(state.Grid[0]), len(state.Drones), maxTurns)

	// Start every run from a clean board
	log.Printf("🔄 Resetting game state...")
	state, err = client.Reset()
	if err != nil {
		log.Fatalf("Failed to reset game: %v", err)
	}

	strategy := NewDodgeStrategy(state)

	for attempt := 1; attempt <= *maxAttempts; attempt++ {
		if attempt > 1 {
			state, err = client.Reset()
			if err != nil {
				log.Fatalf("Failed to reset game: %v", err)
			}
		}
		strategy.NewAttempt(attempt)

		log.Printf("\n=== 🎮 Attempt %d/%d ===", attempt, *maxAttempts)

		moveCount := 0
		errorRun := 0
		for !state.GameOver && moveCount < *maxMoves {
			direction := strategy.NextMove(state)
			if direction == "" {
				log.Printf("⚠️  No valid moves available")
				break
			}

			newState, err := client.Move(direction)
			if err != nil {
				errorRun++
				if errorRun > 5 {
					log.Fatalf("Giving up after repeated request failures: %v", err)
				}
				if *verbose {
					log.Printf("Move failed: %v", err)
				}
				continue
			}
			errorRun = 0

			if newState.Rejected && *verbose {
				log.Printf("Move %s rejected: %s", direction, newState.Reason)
			}

			state = newState
			moveCount++

			if *verbose && moveCount%25 == 0 {
				log.Printf("Turn %d/%d - Position: %s, Drones: %d",
					state.Turn, maxTurns, state.PlayerPos, len(state.Drones))
			}

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: Moves=%d, Turn=%d/%d, Outcome=%s",
			attempt, moveCount, state.Turn, maxTurns, outcomeLabel(state))

		if state.Won {
			log.Printf("\n🎉 VICTORY! Reached the goal in attempt %d after %d turns!", attempt, state.Turn)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\n❌ Failed to win after %d attempts", *maxAttempts)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}

func outcomeLabel(state *GameView) string {
	if state.Outcome != "" {
		return state.Outcome
	}
	if state.GameOver {
		return "game_over"
	}
	return "unfinished"
}
