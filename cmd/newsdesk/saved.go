// ABOUTME: Saved command group for the signed-in user's bookmarked articles
// ABOUTME: Lists, shows and deletes saved articles on the explorer server

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/viewmodel"
)

var savedCmd = &cobra.Command{
	Use:     "saved",
	Aliases: []string{"bookmarks"},
	Short:   "Manage saved articles",
	Long:    "List, read and delete the articles saved to your account",
}

var savedListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List saved articles",
	Long:    "List saved articles with a count and the most frequent keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")

		library, err := loadLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer library.Cleanup()

		fmt.Println(bold(library.CountMessage()))
		if keywords := library.Keywords(); len(keywords) > 0 {
			fmt.Printf("%s %s\n", faint("By keywords:"), strings.Join(keywords, ", "))
		}
		fmt.Println()

		for _, item := range library.Items() {
			if keyword != "" && !strings.EqualFold(item.Keyword(), keyword) {
				continue
			}
			printArticle(os.Stdout, shortID(item.Article().RemoteID()), item)
		}
		return nil
	},
}

var savedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Read a saved article",
	Long:  "Render a saved article as markdown in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		library, err := loadLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer library.Cleanup()

		item, err := findSaved(library, args[0])
		if err != nil {
			return err
		}

		fmt.Println(strings.Repeat("─", config.SeparatorWidth))
		markdown := content.ArticleMarkdown(item.Article())
		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
			fmt.Printf("\n%s\n", markdown)
		} else {
			fmt.Print(rendered)
		}
		fmt.Println(strings.Repeat("─", config.SeparatorWidth))
		return nil
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved article",
	Long:    "Delete a saved article by its id or id prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		library, err := loadLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer library.Cleanup()

		item, err := findSaved(library, args[0])
		if err != nil {
			return err
		}

		if err := app.Saved.Await(item.LocalID(), item.Delete); err != nil {
			return fmt.Errorf("failed to delete %q: %w", item.Title(), err)
		}

		fmt.Printf("%s Deleted %s\n", green("✓"), item.Title())
		fmt.Println(faint(library.CountMessage()))
		return nil
	},
}

// loadLibrary loads the saved collection. A rejected session signs out.
func loadLibrary(ctx context.Context) (*viewmodel.SavedViewModel, error) {
	if !app.Session.IsLoggedIn() {
		return nil, fmt.Errorf("not signed in: run 'newsdesk login' first")
	}
	app.Session.LoadName(ctx)

	library := viewmodel.NewSavedViewModel(app.Saved, app.Session)
	if err := library.Load(ctx); err != nil {
		library.Cleanup()
		if !app.Session.IsLoggedIn() {
			return nil, fmt.Errorf("session expired: run 'newsdesk login' again")
		}
		return nil, fmt.Errorf("%s: %w", viewmodel.MsgLoadSavedError, err)
	}
	return library, nil
}

// findSaved matches ref against remote ids, then remote id prefixes.
func findSaved(library *viewmodel.SavedViewModel, ref string) (*viewmodel.ArticleViewModel, error) {
	var matches []*viewmodel.ArticleViewModel
	for _, item := range library.Items() {
		id := item.Article().RemoteID()
		if id == ref {
			return item, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("saved article not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous id %q matches %d articles", ref, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(savedCmd)
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedShowCmd)
	savedCmd.AddCommand(savedDeleteCmd)

	savedListCmd.Flags().StringP("keyword", "k", "", "only show articles saved under this keyword")
}
