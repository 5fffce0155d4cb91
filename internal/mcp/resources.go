// ABOUTME: MCP resource providers for newsdesk
// ABOUTME: Exposes read-only views of the current search results and the saved collection

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

func (s *Server) registerResources() {
	s.registerResultsResource()
	s.registerSavedResource()
}

func (s *Server) registerResultsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "newsdesk://results",
			Name:        "Search Results",
			Description: "Articles revealed so far for the current search, with their saved status",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			out := s.searchOutput()
			return resourceContents(request.Params.URI, out, len(out.Articles), map[string]string{
				"more":  "tool:show_more",
				"saved": "newsdesk://saved",
			})
		},
	)
}

func (s *Server) registerSavedResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "newsdesk://saved",
			Name:        "Saved Articles",
			Description: "The signed-in user's saved articles with a count message and keyword summary",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			if err := s.library.Load(ctx); err != nil {
				return nil, fmt.Errorf("failed to load saved articles: %w", err)
			}
			out := s.savedOutput()
			return resourceContents(request.Params.URI, out, out.Count, map[string]string{
				"results": "newsdesk://results",
			})
		},
	)
}

func resourceContents(uri string, data interface{}, count int, links map[string]string) ([]mcp.ResourceContents, error) {
	response := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			Count:       count,
			ResourceURI: uri,
		},
		Data:  data,
		Links: links,
	}

	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
