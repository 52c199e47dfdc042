// Package main provides keibactl, a CLI for race data, strategy simulation
// and budget optimization.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/datasource"
	"github.com/yourusername/keiba-optimizer/internal/estimator"
	"github.com/yourusername/keiba-optimizer/internal/logger"
	"github.com/yourusername/keiba-optimizer/internal/models"
	"github.com/yourusername/keiba-optimizer/internal/optimizer"
	"github.com/yourusername/keiba-optimizer/internal/simulation"
)

var (
	configPath string
	useMock    bool
	budget     int
	local      bool
	past       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "keibactl",
		Short: "Race data, strategy simulation and budget optimization CLI",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the built-in demo data source")

	racesCmd := &cobra.Command{
		Use:   "races",
		Short: "List upcoming (or past) races",
		RunE:  runRaces,
	}
	racesCmd.Flags().BoolVar(&past, "past", false, "list finished races instead of upcoming")

	cardCmd := &cobra.Command{
		Use:   "card <race_id>",
		Short: "Show the race card with estimated probabilities and expected values",
		Args:  cobra.ExactArgs(1),
		RunE:  runCard,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate <race_id>",
		Short: "Run the retrospective strategy catalog against a finished race",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulate,
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize <race_id>",
		Short: "Request a budget allocation for a race",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().IntVar(&budget, "budget", 10000, "total budget in yen (multiple of 100)")
	optimizeCmd.Flags().BoolVar(&local, "local", false, "use the local half-Kelly solver instead of the optimizer service")

	rootCmd.AddCommand(racesCmd, cardCmd, simulateCmd, optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config and builds the data source shared by all subcommands.
func setup() (*config.Config, datasource.RaceDataSource, *logrus.Logger, error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if useMock {
		cfg.DataSource.Mock = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, nil, err
	}

	appLog := logger.NewLogger("warn")
	return cfg, datasource.New(&cfg.DataSource, appLog), appLog, nil
}

func runRaces(cmd *cobra.Command, args []string) error {
	cfg, source, _, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var races []models.Race
	if past {
		races, err = source.ListPastRaces(ctx, cfg.DataSource.PastDays)
	} else {
		races, err = source.ListUpcomingRaces(ctx, cfg.DataSource.UpcomingDays)
	}
	if err != nil {
		return err
	}
	return printJSON(races)
}

func runCard(cmd *cobra.Command, args []string) error {
	_, source, _, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	horses, err := source.FetchEntrants(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(estimator.Estimate(horses))
}

func runSimulate(cmd *cobra.Command, args []string) error {
	_, source, _, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := source.FetchResult(ctx, args[0])
	if err != nil {
		return err
	}
	result.Horses = estimator.EstimateResults(result.Horses)

	strategies := simulation.GeneratePost(result)
	summary := simulation.Summarize(args[0], strategies)

	return printJSON(map[string]interface{}{
		"summary":    summary,
		"strategies": strategies,
	})
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, source, appLog, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	req := models.OptimizeRequest{RaceID: args[0], Budget: budget}
	if budget <= 0 || budget%100 != 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidBudget, budget)
	}

	if local {
		horses, err := source.FetchEntrants(ctx, req.RaceID)
		if err != nil {
			return err
		}
		resp, err := optimizer.SolveKelly(req.RaceID, req.Budget, estimator.Estimate(horses))
		if err != nil {
			return err
		}
		return printJSON(resp)
	}

	client := optimizer.NewClient(&cfg.Optimizer, appLog)
	resp, err := client.Optimize(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
