// ABOUTME: Search command for finding this week's news
// ABOUTME: Reveals results a page at a time and optionally bookmarks selected results

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/viewmodel"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s"},
	Short:   "Search news from the last week",
	Long: `Search news published during the last seven days.

Results are revealed a page at a time. Use --pages to reveal more pages and
--save to bookmark results by their index. Results already in your saved
collection are marked with a star.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		saveList, _ := cmd.Flags().GetString("save")

		if pages < 1 {
			return fmt.Errorf("--pages must be positive, got %d", pages)
		}
		toSave, err := parseIndexes(saveList)
		if err != nil {
			return err
		}
		if len(toSave) > 0 && !app.Session.IsLoggedIn() {
			return fmt.Errorf("%s: run 'newsdesk login' first", viewmodel.MsgNotLoggedIn)
		}

		ctx := cmd.Context()
		query := strings.Join(args, " ")

		results := viewmodel.NewSearchViewModel(app.Search, app.Session)
		defer results.Cleanup()

		if err := results.SearchCommand(ctx, query); err != nil {
			logger.Debug("search failed", zap.String("query", query), zap.Error(err))
			return errors.New(results.ErrorMessage())
		}
		if results.IsNoResultsVisible() {
			fmt.Println("Nothing found")
			return nil
		}
		for i := 1; i < pages && results.IsMoreVisible(); i++ {
			results.ShowMoreCommand()
		}

		for _, n := range toSave {
			item, ok := results.Item(n - 1)
			if !ok {
				fmt.Printf("%s %d: not shown\n", red("✗"), n)
				continue
			}
			if item.IsSaved() {
				continue
			}
			if err := app.Search.Repository().Await(item.LocalID(), item.Toggle); err != nil {
				fmt.Printf("%s %d: %v\n", red("✗"), n, err)
				continue
			}
			fmt.Printf("%s saved %d\n", green("✓"), n)
		}

		items := results.Items()
		for i, item := range items {
			printArticle(os.Stdout, fmt.Sprintf("%2d", i+1), item)
		}

		rs := app.Search.Results()
		fmt.Println()
		fmt.Println(faint(fmt.Sprintf("Showing %d of %d results for %q", len(items), rs.Len(), query)))
		if results.IsMoreVisible() {
			fmt.Println(faint(fmt.Sprintf("Use --pages %d to see more", pages+1)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("pages", "p", 1, "number of result pages to reveal")
	searchCmd.Flags().StringP("save", "s", "", "comma separated result indexes to bookmark, e.g. 1,3")
}
