package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catlover7211/news-aggregator/internal/news"
)

var (
	flagScope   string
	flagPage    int
	flagPerPage int
	flagJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Run one aggregated search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured local news sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRENDER\tCOUNTRY\tBASE URL")
		for _, s := range a.registry.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Render, s.Country, s.BaseURL)
		}
		return w.Flush()
	},
}

func init() {
	searchCmd.Flags().StringVarP(&flagScope, "type", "t", string(news.ScopeAll), "search scope: local, global or all")
	searchCmd.Flags().IntVarP(&flagPage, "page", "p", 1, "page number")
	searchCmd.Flags().IntVarP(&flagPerPage, "per-page", "n", news.DefaultPerPage, "results per page")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "print the raw JSON response")
}

func runSearch(cmd *cobra.Command, args []string) error {
	scope, err := news.ParseScope(flagScope)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := buildApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.aggregator.Aggregate(context.Background(), news.SearchRequest{
		Keyword: strings.Join(args, " "),
		Scope:   scope,
		Page:    flagPage,
		PerPage: flagPerPage,
	})
	if !resp.Success {
		return fmt.Errorf("search failed: %s", resp.Message)
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResults(cmd.OutOrStdout(), resp)
	return nil
}

func printResults(out io.Writer, resp news.SearchResponse) {
	p := resp.Pagination
	fmt.Fprintf(out, "%d results, page %d/%d\n", p.TotalResults, p.Page, p.TotalPages)
	if resp.Message != "" {
		fmt.Fprintf(out, "note: %s\n", resp.Message)
	}
	fmt.Fprintln(out)

	for i, a := range resp.Results {
		tag := "local"
		if a.IsGlobal {
			tag = "global"
		}
		fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, tag, a.Title)
		fmt.Fprintf(out, "    %s | %s | %s\n", a.Source, a.Country, a.Date)
		fmt.Fprintf(out, "    %s\n", a.Link)
	}
}
