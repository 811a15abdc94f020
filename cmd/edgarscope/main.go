// edgarscope — SEC EDGAR filing index and item-content explorer
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/edgarscope/api"
	"github.com/seenimoa/edgarscope/internal/config"
	"github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
	"github.com/seenimoa/edgarscope/internal/providers"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "edgarscope",
	Short: "edgarscope — SEC EDGAR filing index and item-content explorer",
	Long: `edgarscope fetches company filing histories from SEC EDGAR, resolves
each filing to its primary document, and extracts the narrative content
of individual disclosure items (e.g. Item 5.02 of an 8-K).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return providers.RegisterAll(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "print raw JSON instead of tables")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(filingsCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// fetch runs a registry fetch with a command-scoped deadline.
func fetch(model provider.ModelType, params provider.QueryParams) (*provider.FetchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return provider.Global().Fetch(ctx, model, params)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edgarscope %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Search Command ---

var searchCmd = &cobra.Command{
	Use:   "search [company]",
	Short: "Search EDGAR for companies by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := fetch(provider.ModelCompanySearch, provider.QueryParams{
			provider.ParamCompany: args[0],
		})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result.Data)
		}

		rows, _ := result.Data.([]models.CompanySearchResult)
		if len(rows) == 0 {
			fmt.Println("No companies found.")
			return nil
		}
		fmt.Printf("%-12s  %s\n", "CIK", "COMPANY")
		for _, r := range rows {
			fmt.Printf("%-12s  %s\n", r.CIK, r.CompanyName)
		}
		return nil
	},
}

// --- Filings Command ---

var filingsCmd = &cobra.Command{
	Use:   "filings [cik]",
	Short: "Fetch a company's filing history with resolved document links",
	Long: `Fetch the filing index for a CIK, optionally filtered by filing type,
date range, and item number. Each filing is resolved to the URL of its
primary document (or the raw submission when no formatted document exists).

Examples:
  edgarscope filings 0000320193 --type 8-K
  edgarscope filings 0000320193 --type 8-K --after 2024-01-01 --item 5.02`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filingType, _ := cmd.Flags().GetString("type")
		after, _ := cmd.Flags().GetString("after")
		before, _ := cmd.Flags().GetString("before")
		item, _ := cmd.Flags().GetString("item")

		result, err := fetch(provider.ModelFilingIndex, provider.QueryParams{
			provider.ParamCIK:        args[0],
			provider.ParamFilingType: filingType,
			provider.ParamAfter:      after,
			provider.ParamBefore:     before,
			provider.ParamItem:       item,
		})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result.Data)
		}

		set, _ := result.Data.(*edgar.FilingSet)
		if set == nil || len(set.Records) == 0 {
			fmt.Println("No filings found.")
			return nil
		}
		for _, rec := range set.Records {
			fmt.Printf("%-10s  %s  [%s]\n", rec.FilingType,
				rec.FilingDate.Format("2006-01-02"),
				strings.Join(rec.ItemNumbers, ", "))
			fmt.Printf("            %s\n", rec.Content)
		}
		if len(set.Dropped) > 0 {
			fmt.Printf("\n%d row(s) could not be parsed.\n", len(set.Dropped))
		}
		return nil
	},
}

func init() {
	filingsCmd.Flags().String("type", "", "filing type filter, e.g. 8-K")
	filingsCmd.Flags().String("after", "", "only filings on or after this date (YYYY-MM-DD)")
	filingsCmd.Flags().String("before", "", "only filings before this date (YYYY-MM-DD)")
	filingsCmd.Flags().String("item", "", "only filings reporting this item number, e.g. 5.02")
}

// --- Item Command ---

var itemCmd = &cobra.Command{
	Use:   "item [document-url]",
	Short: "Extract item narrative content from a filing document",
	Long: `Fetch a filing document and extract the narrative fragments for the
requested item numbers. Without --items the whole document body is returned
as a single block.

Example:
  edgarscope item https://www.sec.gov/Archives/edgar/data/320193/form8k.htm --items 5.02,9.01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, _ := cmd.Flags().GetString("items")

		result, err := fetch(provider.ModelItemContent, provider.QueryParams{
			provider.ParamURL:   args[0],
			provider.ParamItems: items,
		})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result.Data)
		}

		blocks, _ := result.Data.([]models.ItemContentBlock)
		if len(blocks) == 0 {
			fmt.Println(models.ContentNotFound)
			return nil
		}
		for i, blk := range blocks {
			if i > 0 {
				fmt.Println(strings.Repeat("-", 60))
			}
			if blk.ItemNumber != "" {
				fmt.Printf("Item %s\n\n", blk.ItemNumber)
			}
			fmt.Println(blk.Fragment)
		}
		return nil
	},
}

func init() {
	itemCmd.Flags().String("items", "", "comma-separated item numbers, e.g. 5.02,9.01")
}

// --- Feed Command ---

var feedCmd = &cobra.Command{
	Use:   "feed [cik]",
	Short: "Show a company's recent filings from the EDGAR Atom feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filingType, _ := cmd.Flags().GetString("type")

		result, err := fetch(provider.ModelFilingFeed, provider.QueryParams{
			provider.ParamCIK:        args[0],
			provider.ParamFilingType: filingType,
		})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result.Data)
		}

		entries, _ := result.Data.([]models.FilingFeedEntry)
		if len(entries) == 0 {
			fmt.Println("No feed entries found.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s\n", e.Updated.Format("2006-01-02"), e.Title)
			fmt.Printf("            %s\n", e.FilingURL)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().String("type", "", "filing type filter, e.g. 8-K")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting edgarscope API server on %s\n", addr)

		srv := api.NewServer(cfg, provider.Global())
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  edgarscope — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    User Agent:   %s\n", cfg.EDGAR.UserAgent)
		fmt.Printf("    Rate Limit:   %d req/s\n", cfg.EDGAR.RateLimit)
		fmt.Printf("    Concurrency:  %d\n", cfg.EDGAR.FetchConcurrency)
		fmt.Printf("    API Server:   %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  Providers:")
		for _, info := range provider.Global().List() {
			fmt.Printf("    %-10s %s (%d models)\n", info.Name, info.Description, len(info.Models))
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
