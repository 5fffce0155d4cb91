// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for news research and saved collection cleanup

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerNewsBriefingPrompt()
	s.registerTidySavedPrompt()
}

func (s *Server) registerNewsBriefingPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "news-briefing",
			Description: "Research a topic in this week's news and bookmark the most relevant articles",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "topic",
					Description: "Topic to research (default: technology)",
					Required:    false,
				},
				{
					Name:        "save",
					Description: "How many articles to bookmark (default: 3)",
					Required:    false,
				},
			},
		},
		s.handleNewsBriefing,
	)
}

func (s *Server) handleNewsBriefing(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := "technology"
	save := "3"
	if req.Params.Arguments != nil {
		if t, ok := req.Params.Arguments["topic"]; ok && t != "" {
			topic = t
		}
		if n, ok := req.Params.Arguments["save"]; ok && n != "" {
			save = n
		}
	}

	template := fmt.Sprintf(`# News Briefing: %[1]s

## Overview
Find what was published about "%[1]s" during the last seven days, summarize it, and bookmark the %[2]s most relevant articles into the saved collection.

## Workflow Steps

### Step 1: Search
**Use search_news tool:**
- query: "%[1]s"
- pages: 2 to see up to six articles at once

If the response carries a message instead of articles, report it and stop. "nothing found" means there were no matches this week.

### Step 2: Read More Results
**Use show_more tool** while has_more is true and the results still look relevant. Each call reveals up to three more articles.

### Step 3: Summarize
Group the revealed articles by theme. For each theme give one or two sentences and cite article titles with their sources.

### Step 4: Bookmark
**Use save_article tool** with the index of each article worth keeping, up to %[2]s articles. Skip articles whose saved flag is already true.

A failed save leaves the article unsaved; mention it and continue with the next one.

### Step 5: Confirm
**Use newsdesk://saved resource** or the list_saved tool to confirm the collection now contains the bookmarked articles.
`, topic, save)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("News briefing workflow for %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerTidySavedPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "tidy-saved",
			Description: "Review the saved collection and delete articles that are no longer worth keeping",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleTidySaved,
	)
}

func (s *Server) handleTidySaved(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Tidy Saved Articles

## Overview
Review the saved collection, propose deletions, and delete only what the user confirms.

## Workflow Steps

### Step 1: Load the Collection
**Use list_saved tool.** Note the count message and the keyword summary; the keywords are ordered by how many articles carry them.

### Step 2: Find Candidates
Look for duplicates (same URL or near-identical titles), articles older than a month, and keywords with a single article that no longer matter.

### Step 3: Confirm
Present the candidates as a short list with title, source, publish date and id. Ask before deleting anything.

### Step 4: Delete
**Use delete_saved tool** with the id of each confirmed article. An article already removed on the server still counts as deleted.

### Step 5: Report
Call list_saved again and report the new count message.
`

	return &mcp.GetPromptResult{
		Description: "Saved collection cleanup workflow",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
