// Command equity-odds estimates the probability of winning a hold'em
// hand from the command line. It plays the role of the decision layer:
// it assembles the per-decision snapshot, hands it to the equity
// engine, and renders whatever comes back.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-equity/internal/config"
	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/evaluator"
)

type CLI struct {
	Hole      string `arg:"" required:"" help:"Your two hole cards, suit letter first (e.g. SASK)"`
	Board     string `short:"b" help:"Community cards revealed so far (e.g. SQS7H2)"`
	Opponents int    `short:"o" default:"1" help:"Number of active opponents"`
	Street    string `short:"s" help:"Betting street (preflop, flop, turn, river); inferred from the board when omitted"`
	Trials    int    `short:"n" help:"Trial budget override (default depends on street)"`
	Workers   int    `short:"w" help:"Worker count for parallel simulation (overrides config)"`
	Seed      int64  `help:"Random seed for reproducible results"`
	Config    string `short:"c" type:"path" default:"equity.hcl" help:"Engine tuning file"`
	JSON      bool   `help:"Emit the result as JSON"`
	Debug     bool   `short:"d" help:"Enable debug logging"`
}

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	probStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("equity-odds"),
		kong.Description("Monte Carlo win-probability estimates for hold'em hands."))

	level := log.InfoLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if err := run(cli, logger); err != nil {
		logger.Error("estimate failed", "error", err)
		ctx.Exit(1)
	}
}

func run(cli CLI, logger *log.Logger) error {
	hole, err := deck.ParseCards(strings.ToUpper(cli.Hole))
	if err != nil {
		return fmt.Errorf("parsing hole cards: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("need exactly 2 hole cards, got %d", len(hole))
	}

	var board []deck.Card
	if cli.Board != "" {
		if board, err = deck.ParseCards(strings.ToUpper(cli.Board)); err != nil {
			return fmt.Errorf("parsing board: %w", err)
		}
	}

	street, err := resolveStreet(cli.Street, len(board))
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger
	engineCfg.Seed = cli.Seed
	if cli.Workers > 0 {
		engineCfg.Workers = cli.Workers
	}
	if cli.Debug {
		engineCfg.Observer = func(trials, wins int) {
			logger.Debug("simulation checkpoint", "trials", trials, "wins", wins)
		}
	}

	engine := equity.New(engineCfg)
	result, err := engine.WinProbability(context.Background(), equity.Request{
		Hole:      hole,
		Board:     board,
		Opponents: cli.Opponents,
		Street:    street,
		Trials:    cli.Trials,
	})
	if err != nil {
		if errors.Is(err, equity.ErrUnavailable) {
			return fmt.Errorf("no estimate available: %w", err)
		}
		return err
	}

	if cli.JSON {
		return printJSON(hole, board, street, cli.Opponents, result)
	}
	printStyled(hole, board, street, cli.Opponents, result)
	return nil
}

// resolveStreet reconciles an explicit street flag with the board.
func resolveStreet(name string, boardCards int) (equity.Street, error) {
	if name == "" {
		street, err := equity.StreetForBoard(boardCards)
		if err != nil {
			return 0, fmt.Errorf("%w (pass --street explicitly)", err)
		}
		return street, nil
	}
	return equity.ParseStreet(strings.ToLower(name))
}

type jsonResult struct {
	Hole      []string `json:"hole"`
	Board     []string `json:"board"`
	Street    string   `json:"street"`
	Opponents int      `json:"opponents"`
	Prob      float64  `json:"prob"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Margin    float64  `json:"margin"`
	Trials    int      `json:"trials"`
}

func printJSON(hole, board []deck.Card, street equity.Street, opponents int, result equity.Result) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(jsonResult{
		Hole:      deck.CardCodes(hole),
		Board:     deck.CardCodes(board),
		Street:    street.String(),
		Opponents: opponents,
		Prob:      result.Prob,
		Min:       result.Lower,
		Max:       result.Upper,
		Margin:    result.Margin,
		Trials:    result.Trials,
	})
}

func printStyled(hole, board []deck.Card, street equity.Street, opponents int, result equity.Result) {
	fmt.Printf("%s %s",
		labelStyle.Render("Hand:"),
		cardStyle.Render(renderCards(hole)))
	if len(board) > 0 {
		fmt.Printf("  %s %s",
			labelStyle.Render("Board:"),
			cardStyle.Render(renderCards(board)))
	}
	fmt.Printf("  (%s, %d opponent(s))\n", street, opponents)

	if made := evaluator.Evaluate(hole, board); len(board) >= 3 && made != evaluator.RankUnknown {
		fmt.Printf("%s %s (%s)\n",
			labelStyle.Render("Made hand:"),
			categoryStyle.Render(made.String()),
			made.Tier())
	}

	fmt.Printf("%s %s  %s\n",
		labelStyle.Render("Win probability:"),
		probStyle.Render(fmt.Sprintf("%.1f%%", result.Prob*100)),
		rangeStyle.Render(fmt.Sprintf("[%.1f%% - %.1f%%] over %d trials",
			result.Lower*100, result.Upper*100, result.Trials)))
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
