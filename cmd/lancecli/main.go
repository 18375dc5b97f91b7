package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lancehub/lancecli/internal/api"
	"github.com/lancehub/lancecli/internal/config"
	"github.com/lancehub/lancecli/internal/format"
	"github.com/lancehub/lancecli/internal/logging"
	"github.com/lancehub/lancecli/internal/tui"
	"github.com/lancehub/lancecli/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lancecli",
	Short: "LanceHub CLI - freelance order aggregator client",
	Long: `LanceHub CLI is a terminal client for the LanceHub freelance assistant.

Run without arguments to start the interactive TUI: the order feed, the CRM
pipeline, the AI tool panels and your profile, all in one screen.

The user identity resolves from --user, then the LANCECLI_USER_ID environment
variable, then ~/.lancecli/settings.jsonc. Without an identity the client
starts with empty data.

Examples:
  lancecli                             # Start interactive TUI
  lancecli feed                        # Print the current order feed
  lancecli feed --source kwork         # Print kwork orders only
  lancecli orders                      # Print your CRM orders
  lancecli --server http://host:8000   # Use a non-default backend
  lancecli --help                      # Show help`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, userID, err := setup()
		if err != nil {
			return err
		}
		return tui.Run(server, userID)
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the current order feed and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, userID, err := setup()
		if err != nil {
			return err
		}

		client := api.New(server, logging.New(config.LogFile))
		orders, ok := client.FetchFeed(userID)
		if !ok {
			return fmt.Errorf("failed to fetch feed from %s", server)
		}

		printOrders(types.FilterBySource(orders, sourceOrAll()))
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Print your CRM orders and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, userID, err := setup()
		if err != nil {
			return err
		}

		client := api.New(server, logging.New(config.LogFile))
		orders, ok := client.FetchOrders(userID)
		if !ok {
			return fmt.Errorf("failed to fetch orders from %s", server)
		}

		printCrmOrders(orders)
		return nil
	},
}

var (
	flagServer  string
	flagUser    int64
	flagEnvFile string
	flagSource  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Backend base URL (default from settings or http://localhost:8000)")
	rootCmd.PersistentFlags().Int64Var(&flagUser, "user", 0, "Telegram user id")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from file")

	feedCmd.Flags().StringVar(&flagSource, "source", "", "Only show orders from one source (kwork, fl, habr, ...)")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(ordersCmd)
}

// setup loads the env file, initializes the config directory and resolves
// the server URL and user identity.
func setup() (server string, userID int64, err error) {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil {
			return "", 0, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if err := config.Initialize(); err != nil {
		return "", 0, fmt.Errorf("failed to initialize config: %w", err)
	}
	return config.ResolveServerURL(flagServer), config.ResolveUserID(flagUser), nil
}

func sourceOrAll() string {
	if flagSource == "" {
		return types.FilterAll
	}
	return flagSource
}

// printOrders writes feed orders in a compact single-order-per-block form.
func printOrders(orders []types.Order) {
	if len(orders) == 0 {
		fmt.Println("Нет заказов")
		return
	}

	now := time.Now()
	for _, o := range orders {
		fmt.Printf("%s %s  %s\n", types.SourceMarker(o.Source), strings.ToUpper(o.Source), format.RelativeTime(o.CreatedAt, now))
		fmt.Println(format.SanitizeLine(o.Title))
		fmt.Printf("💰 %s", format.Budget(o.Budget))
		if o.URL != "" {
			fmt.Printf("  %s", o.URL)
		}
		fmt.Print("\n\n")
	}
	fmt.Printf("Всего: %d\n", len(orders))
}

// printCrmOrders writes CRM orders with their pipeline status and totals.
func printCrmOrders(orders []types.Order) {
	if len(orders) == 0 {
		fmt.Println("В CRM пока пусто")
		return
	}

	for _, o := range orders {
		fmt.Printf("%s %s  %s\n", types.SourceMarker(o.Source), strings.ToUpper(o.Source), types.StatusLabel(o.Status))
		fmt.Println(format.SanitizeLine(o.Title))
		fmt.Printf("💰 %s", format.Budget(o.Budget))
		if o.MyPrice != 0 {
			fmt.Printf("  💵 %s", format.Money(o.MyPrice))
		}
		fmt.Print("\n")
		if o.Notes != "" {
			fmt.Println("📝 " + format.SanitizeLine(format.Truncate(o.Notes, 80)))
		}
		fmt.Print("\n")
	}

	stats := types.ComputeCrmStats(orders)
	fmt.Printf("Всего: %d  В работе: %d  Завершено: %d  Заработано: %s\n",
		stats.Total, stats.InProgress, stats.Completed, format.Money(stats.Earned))
}
