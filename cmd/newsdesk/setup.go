// ABOUTME: Cobra command for interactive newsdesk configuration.
// ABOUTME: Launches a bubbletea TUI wizard to select the search provider and explorer server.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure search provider and explorer server",
	Long:  "Interactive wizard to configure the search provider, its credentials and the explorer server URL.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	model := tui.NewSetupModel(tui.Settings{
		Provider:    cfg.Provider,
		NewsAPIKey:  cfg.NewsAPIKey,
		RSSURL:      cfg.RSSSearchURL,
		ExplorerURL: cfg.ExplorerURL,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	s := final.Result()
	cfg.Provider = s.Provider
	cfg.NewsAPIKey = s.NewsAPIKey
	cfg.RSSSearchURL = s.RSSURL
	cfg.ExplorerURL = s.ExplorerURL

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", config.GetConfigPath())
	return nil
}
