// ABOUTME: MCP tool definitions and handlers for news search and the saved collection
// ABOUTME: Provides tools for searching, paging results, saving, unsaving and deleting articles

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/repository"
	"github.com/harper/newsdesk/internal/viewmodel"
)

// Type definitions for input/output structures

type ArticleOutput struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	RemoteID  string `json:"remote_id,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Source    string `json:"source,omitempty"`
	Published string `json:"published,omitempty"`
	URL       string `json:"url"`
	Saved     bool   `json:"saved"`
}

type SearchNewsInput struct {
	Query string `json:"query"`
	Pages *int   `json:"pages,omitempty"`
}

type SearchOutput struct {
	Query    string          `json:"query"`
	State    string          `json:"state"`
	Total    int             `json:"total"`
	Shown    int             `json:"shown"`
	HasMore  bool            `json:"has_more"`
	Articles []ArticleOutput `json:"articles"`
	Message  string          `json:"message,omitempty"`
}

type ShowMoreInput struct{}

type ArticleIndexInput struct {
	Index int `json:"index"`
}

type SaveOutput struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Article ArticleOutput `json:"article"`
}

type ListSavedInput struct{}

type ListSavedOutput struct {
	Count    int             `json:"count"`
	Message  string          `json:"message"`
	Keywords []string        `json:"keywords"`
	Articles []ArticleOutput `json:"articles"`
}

type DeleteSavedInput struct {
	ID string `json:"id"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerSearchNewsTool()
	s.registerShowMoreTool()
	s.registerSaveArticleTool()
	s.registerUnsaveArticleTool()
	s.registerListSavedTool()
	s.registerDeleteSavedTool()
}

func (s *Server) registerSearchNewsTool() {
	tool := mcp.Tool{
		Name:        "search_news",
		Description: "Search news published during the last week. Replaces any previous search. Results are revealed three at a time; use pages to reveal more than the first page at once, or call show_more afterwards. Returns the revealed articles with 1-based indexes used by save_article and unsave_article.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search keyword or phrase. Example: 'rust'",
				},
				"pages": map[string]interface{}{
					"type":        "integer",
					"description": "Number of pages to reveal immediately. Default: 1. Example: 2 shows up to six articles",
				},
			},
			Required: []string{"query"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSearchNews)
}

func (s *Server) registerShowMoreTool() {
	tool := mcp.Tool{
		Name:        "show_more",
		Description: "Reveal the next page of the current search results. Has no effect once every result is shown (has_more is false).",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleShowMore)
}

func (s *Server) registerSaveArticleTool() {
	tool := mcp.Tool{
		Name:        "save_article",
		Description: "Bookmark a revealed search result into the signed-in user's saved collection. Requires a signed-in session. Returns the server id of the saved article.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "1-based index of a revealed search result. Example: 2",
				},
			},
			Required: []string{"index"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSaveArticle)
}

func (s *Server) registerUnsaveArticleTool() {
	tool := mcp.Tool{
		Name:        "unsave_article",
		Description: "Remove a previously saved search result from the saved collection. Requires a signed-in session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "1-based index of a revealed search result. Example: 2",
				},
			},
			Required: []string{"index"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleUnsaveArticle)
}

func (s *Server) registerListSavedTool() {
	tool := mcp.Tool{
		Name:        "list_saved",
		Description: "Load the signed-in user's saved articles. Returns the articles, a count message and the most frequent keywords.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListSaved)
}

func (s *Server) registerDeleteSavedTool() {
	tool := mcp.Tool{
		Name:        "delete_saved",
		Description: "Delete an article from the saved collection. Accepts the server id returned by list_saved or a prefix of the local id. Deleting an article that is already gone on the server succeeds.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Server id or local id prefix. Example: '5f2a9c1e8b3d'",
				},
			},
			Required: []string{"id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleDeleteSaved)
}

// Tool handlers

func (s *Server) handleSearchNews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchNewsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	pages := 1
	if input.Pages != nil {
		pages = *input.Pages
	}
	if pages < 1 {
		return nil, fmt.Errorf("pages must be positive, got %d", pages)
	}

	if err := s.results.SearchCommand(ctx, query); err != nil {
		s.logger.Debug("search_news failed", zap.String("query", query), zap.Error(err))
	}
	for i := 1; i < pages && s.results.IsMoreVisible(); i++ {
		s.results.ShowMoreCommand()
	}

	return jsonResult(s.searchOutput())
}

func (s *Server) handleShowMore(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.search.State() != repository.Results {
		return nil, fmt.Errorf("no search results to show, run search_news first")
	}
	s.results.ShowMoreCommand()
	return jsonResult(s.searchOutput())
}

func (s *Server) handleSaveArticle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setSaved(req, true)
}

func (s *Server) handleUnsaveArticle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setSaved(req, false)
}

func (s *Server) setSaved(req mcp.CallToolRequest, saved bool) (*mcp.CallToolResult, error) {
	var input ArticleIndexInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	item, ok := s.results.Item(input.Index - 1)
	if !ok {
		return nil, fmt.Errorf("index out of range: %d (%d articles shown)", input.Index, len(s.results.Items()))
	}

	out := SaveOutput{Success: true}
	switch {
	case item.IsSaved() == saved:
		out.Message = "nothing to do"
	default:
		err := s.search.Repository().Await(item.LocalID(), item.Toggle)
		if errors.Is(err, viewmodel.ErrNotLoggedIn) {
			return nil, err
		}
		if err != nil {
			out.Success = false
			out.Message = err.Error()
		} else if saved {
			out.Message = "article saved"
		} else {
			out.Message = "article removed from saved collection"
		}
	}

	out.Article = articleOutput(input.Index, item)
	return jsonResult(out)
}

func (s *Server) handleListSaved(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.library.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load saved articles: %w", err)
	}
	return jsonResult(s.savedOutput())
}

func (s *Server) handleDeleteSaved(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DeleteSavedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	if !s.library.HasArticles() {
		if err := s.library.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load saved articles: %w", err)
		}
	}

	item := findSaved(s.library.Items(), input.ID)
	if item == nil {
		return nil, fmt.Errorf("saved article not found: %s", input.ID)
	}

	out := SaveOutput{Success: true, Message: "article deleted", Article: articleOutput(0, item)}
	if err := s.saved.Await(item.LocalID(), item.Delete); err != nil {
		out.Success = false
		out.Message = err.Error()
		out.Article.Saved = item.IsSaved()
	}
	return jsonResult(out)
}

// Helpers

func findSaved(items []*viewmodel.ArticleViewModel, id string) *viewmodel.ArticleViewModel {
	for _, item := range items {
		if item.Article().RemoteID() == id {
			return item
		}
	}
	if len(id) < config.DisplayIDLength {
		return nil
	}
	for _, item := range items {
		if strings.HasPrefix(item.LocalID(), id) {
			return item
		}
	}
	return nil
}

func articleOutput(index int, item *viewmodel.ArticleViewModel) ArticleOutput {
	return ArticleOutput{
		Index:     index,
		ID:        item.LocalID(),
		RemoteID:  item.Article().RemoteID(),
		Keyword:   item.Keyword(),
		Title:     item.Title(),
		Summary:   item.Summary(),
		Source:    item.Source(),
		Published: item.PublishedAt(),
		URL:       item.URL(),
		Saved:     item.IsSaved(),
	}
}

func (s *Server) searchOutput() SearchOutput {
	items := s.results.Items()
	out := SearchOutput{
		Query:    s.search.Query(),
		State:    s.search.State().String(),
		Shown:    len(items),
		HasMore:  s.results.IsMoreVisible(),
		Articles: make([]ArticleOutput, 0, len(items)),
		Message:  s.results.ErrorMessage(),
	}
	if rs := s.search.Results(); rs != nil {
		out.Total = rs.Len()
	}
	if s.results.IsNoResultsVisible() {
		out.Message = "nothing found"
	}
	for i, item := range items {
		out.Articles = append(out.Articles, articleOutput(i+1, item))
	}
	return out
}

func (s *Server) savedOutput() ListSavedOutput {
	items := s.library.Items()
	out := ListSavedOutput{
		Count:    len(items),
		Message:  s.library.CountMessage(),
		Keywords: s.library.Keywords(),
		Articles: make([]ArticleOutput, 0, len(items)),
	}
	for i, item := range items {
		out.Articles = append(out.Articles, articleOutput(i+1, item))
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
