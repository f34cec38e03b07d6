// Command playgame loads a game specification and plays it interactively
// in a terminal, mirroring original_source/game.py's __main__ argv
// convention: playgame [-v] [-p num_players] <spec_file> [moves_file]
// (flags must precede the positional arguments).
// Styled after darwindeck's cmd/evolve: package-level flag vars set up in
// init, plain fmt/os output, no cobra/viper.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/signalnine/ruleforge/enginelog"
	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/render"
	"github.com/signalnine/ruleforge/ruleerr"
	"github.com/signalnine/ruleforge/setup"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/turn"
	"github.com/signalnine/ruleforge/value"
)

var (
	verbose    bool
	numPlayers int
	profile    string
	seed       int64
)

func init() {
	flag.BoolVar(&verbose, "v", false, "enable verbose (debug) logging")
	flag.IntVar(&numPlayers, "p", 0, "number of players (0 = spec's minimum)")
	flag.StringVar(&profile, "profile", "ascii", "presentation profile name")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = current time)")
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: playgame [-v] [-p num_players] <spec_file> [moves_file]")
		os.Exit(1)
	}
	specPath := args[0]
	var movesPath string
	if len(args) > 1 {
		movesPath = args[1]
	}

	log := enginelog.New(enginelog.Config{Verbose: verbose, Pretty: true})

	loaded, err := spec.LoadFile(specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading spec: %v\n", err)
		os.Exit(1)
	}
	log = enginelog.WithRun(log, loaded.SpecID)
	log.Info().Str("game", loaded.Doc.Metadata.Name).Msg("spec loaded")

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := expr.NewSeededRNG(seed)

	players := numPlayers
	if players == 0 {
		players = loaded.Doc.Players.Count.Min
	}
	s, err := setup.BuildState(loaded.Doc, players, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up game: %v\n", err)
		os.Exit(1)
	}

	ev := expr.NewEvaluator(s, rng, log)
	ctrl := turn.NewController(loaded.Doc)
	rdr := render.NewRenderer(loaded.Doc, profile)

	switch s.Topology.Kind {
	case state.TopologyGrid:
		runGridGame(ctrl, rdr, ev, movesPath)
	case state.TopologyZones:
		runCardGame(ctrl, rdr, ev)
	default:
		fmt.Fprintln(os.Stderr, "Unknown topology type!")
		os.Exit(1)
	}
}

func runGridGame(ctrl *turn.Controller, rdr *render.Renderer, ev *expr.Evaluator, movesPath string) {
	reader := bufio.NewReader(os.Stdin)
	var scripted []string
	isScripted := false
	if movesPath != "" {
		data, err := os.ReadFile(movesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "!! Error: moves file not found at '%s'\n", movesPath)
			return
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				scripted = append(scripted, line)
			}
		}
		isScripted = true
		fmt.Printf("--- Running in scripted mode from '%s' ---\n", movesPath)
	}

	for {
		rdr.RenderBoard(os.Stdout, ev, ev.State, nil)
		current := ev.State.CurrentPlayer
		if current == nil {
			fmt.Println("Game over or error: No current player.")
			return
		}
		fmt.Printf("Turn: %s\n", current.Name)

		var moveInput string
		if isScripted && len(scripted) > 0 {
			moveInput = scripted[0]
			scripted = scripted[1:]
			fmt.Printf("Executing from file: %s\n", moveInput)
			time.Sleep(500 * time.Millisecond)
		} else {
			if isScripted {
				fmt.Println("--- End of script. Now in interactive mode. ---")
				isScripted = false
			}
			fmt.Printf("Player '%s', enter move (e.g., A1 B2) or 'quit': ", current.Name)
			line, _ := reader.ReadString('\n')
			moveInput = strings.TrimSpace(line)
		}

		if strings.EqualFold(moveInput, "quit") {
			fmt.Println("Game ended by user.")
			return
		}

		fields := strings.Fields(strings.ToUpper(moveInput))
		if len(fields) < 2 {
			fmt.Println("!! A move requires at least a start and end position.")
			continue
		}

		path := make([]value.Coord, 0, len(fields))
		valid := true
		for _, f := range fields {
			c, err := parsePosition(f, ev.State.Topology.Width, ev.State.Topology.Height)
			if err != nil {
				fmt.Printf("!! %v\n", err)
				valid = false
				break
			}
			path = append(path, c)
		}
		if !valid {
			continue
		}

		next, err := ctrl.GridMove(ev, path)
		if err != nil {
			fmt.Printf("!! %v\n", err)
			if isScripted {
				fmt.Println("!! Aborting script. Switching to interactive mode.")
				isScripted = false
			}
			continue
		}
		ev.State = next
	}
}

func runCardGame(ctrl *turn.Controller, rdr *render.Renderer, ev *expr.Evaluator) {
	reader := bufio.NewReader(os.Stdin)
	for {
		current := ev.State.CurrentPlayer
		if current == nil {
			fmt.Println("Game over or error: No current player.")
			return
		}

		rdr.RenderBoard(os.Stdout, ev, ev.State, current)
		fmt.Printf("\n>>> %s's Turn <<<\n", current.Name)

		fmt.Print("Enter card # to play, 0 to draw (or 'quit'): ")
		line, _ := reader.ReadString('\n')
		actionInput := strings.TrimSpace(line)
		if strings.EqualFold(actionInput, "quit") {
			fmt.Println("Game ended by user.")
			return
		}

		cardNum, err := strconv.Atoi(actionInput)
		if err != nil {
			fmt.Println("!! Invalid input. Enter a card number.")
			continue
		}

		actionName, winner, err := ctrl.CardMove(ev, cardNum)
		if err != nil {
			var re *ruleerr.Error
			if errors.As(err, &re) {
				fmt.Printf("\n%s\n", re.Message)
			} else {
				fmt.Printf("\n%v\n", err)
			}
			fmt.Println("Try again.")
			continue
		}
		if cardNum == 0 {
			fmt.Println("\nDrew a card.")
		} else {
			fmt.Printf("\nPlayed action '%s'.\n", actionName)
		}

		if winner != nil {
			fmt.Printf("\n\n*** %s WINS! ***\n", winner.Name)
			return
		}
	}
}

// parsePosition decodes an "A1"-style board reference into a 0-based
// Coord, ported from parse_position.
func parsePosition(s string, width, height int) (value.Coord, error) {
	if len(s) < 2 {
		return value.Coord{}, ruleerr.New(ruleerr.InvalidPositionFormat, "invalid position format")
	}
	col := s[0]
	if col < 'A' || col > 'Z' {
		return value.Coord{}, ruleerr.New(ruleerr.InvalidPositionFormat, "invalid position format")
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return value.Coord{}, ruleerr.New(ruleerr.InvalidPositionFormat, "invalid position format")
	}
	x, y := int(col-'A'), row-1
	if x < 0 || x >= width || y < 0 || y >= height {
		return value.Coord{}, ruleerr.New(ruleerr.InvalidPositionFormat, fmt.Sprintf("position %s is out of bounds", s))
	}
	return value.Coord{X: x, Y: y}, nil
}
