package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/crowd-lab/crowdsim/pkg/cli/config"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/usecase"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
)

func cmdSimulate() *cli.Command {
	var turns int
	var price float64
	var priceStep float64
	var quality int
	var event string
	var seed uint64
	var businessName string
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "turns",
			Usage:       "Number of turns to simulate",
			Value:       10,
			Destination: &turns,
		},
		&cli.Float64Flag{
			Name:        "price",
			Usage:       "Offer price for the first turn",
			Value:       10.0,
			Destination: &price,
		},
		&cli.Float64Flag{
			Name:        "price-step",
			Usage:       "Price change applied after each turn (negative to discount)",
			Destination: &priceStep,
		},
		&cli.IntFlag{
			Name:        "quality",
			Usage:       "Offer quality (1-10)",
			Value:       7,
			Destination: &quality,
		},
		&cli.StringFlag{
			Name:        "event",
			Usage:       "Optional world event description applied to every turn",
			Destination: &event,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "Master random seed for reproducible runs (0 uses a random seed)",
			Sources:     cli.EnvVars("CROWDSIM_SEED"),
			Destination: &seed,
		},
		&cli.StringFlag{
			Name:        "business-name",
			Usage:       "Name of the simulated business",
			Value:       "Corner Coffee",
			Destination: &businessName,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "simulate",
		Aliases: []string{"sim"},
		Usage:   "Run a fixed number of turns and print per-turn summaries",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if turns < 1 {
				return goerr.New("turns must be at least 1", goerr.V("turns", turns))
			}

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(ctx); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			decisionOracle, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure decision oracle")
			}

			ucOpts := []usecase.Option{}
			if seed != 0 {
				ucOpts = append(ucOpts, usecase.WithSeed(seed))
			}

			uc, err := usecase.New(ctx, catalog, repo, decisionOracle, ucOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize simulator")
			}

			business := &model.BusinessState{Name: businessName, Reputation: 0.7}

			for turn := 1; turn <= turns; turn++ {
				input := &model.TurnInput{
					Turn:     turn,
					Price:    price,
					Quality:  quality,
					Event:    event,
					Business: business,
				}

				result, err := uc.RunTurn(ctx, input)
				if err != nil {
					return goerr.Wrap(err, "turn failed", goerr.V("turn", turn))
				}

				printTurnSummary(result)
				price += priceStep
			}

			return nil
		},
	}
}

var (
	moodColors = map[types.MarketMood]*color.Color{
		types.MarketMoodBrandCrisis: color.New(color.FgRed, color.Bold),
		types.MarketMoodMassExodus:  color.New(color.FgRed),
		types.MarketMoodResentful:   color.New(color.FgYellow),
		types.MarketMoodViralHype:   color.New(color.FgGreen, color.Bold),
		types.MarketMoodFOMOWave:    color.New(color.FgGreen),
		types.MarketMoodOptimistic:  color.New(color.FgCyan),
		types.MarketMoodSkeptical:   color.New(color.FgYellow),
		types.MarketMoodBalanced:    color.New(color.FgWhite),
	}

	labelColor = color.New(color.FgHiBlack)
)

func printTurnSummary(result *model.TurnResult) {
	agg := result.Aggregates

	moodColor, ok := moodColors[result.MarketMood]
	if !ok {
		moodColor = color.New(color.FgWhite)
	}

	fmt.Fprintf(os.Stdout, "%s %s  %s\n",
		labelColor.Sprintf("turn %3d", result.Turn),
		moodColor.Sprint(result.MarketMood),
		labelColor.Sprintf("($%.2f, quality %d)", result.Input.Price, result.Input.Quality))

	fmt.Fprintf(os.Stdout, "  buy %s  skip %s  switch %s  trust %s",
		color.GreenString("%d", agg.Buys),
		color.YellowString("%d", agg.Skips),
		color.RedString("%d", agg.Switches),
		color.CyanString("%.1f", agg.AverageTrust))

	if agg.PermanentlyGone > 0 {
		fmt.Fprintf(os.Stdout, "  gone %s", color.RedString("%d", agg.PermanentlyGone))
	}
	if agg.Errors > 0 {
		fmt.Fprintf(os.Stdout, "  errors %s", color.MagentaString("%d", agg.Errors))
	}
	fmt.Fprintln(os.Stdout)

	if !result.Success {
		fmt.Fprintf(os.Stdout, "  %s %s\n", color.RedString("turn failed:"), result.FailureReason)
	}
}
