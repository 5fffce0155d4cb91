// ABOUTME: MCP server implementation for newsdesk
// ABOUTME: Provides tools, resources, and prompts for AI agents to search news and manage saved articles

package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/repository"
	"github.com/harper/newsdesk/internal/session"
	"github.com/harper/newsdesk/internal/viewmodel"
)

// Deps are the collaborators the server exposes.
type Deps struct {
	Search  *repository.Search
	Saved   *repository.Repository
	Session *session.Manager
	Logger  *zap.Logger
	Version string
}

// Server wraps the MCP server with newsdesk-specific context
type Server struct {
	mcpServer *server.MCPServer
	search    *repository.Search
	saved     *repository.Repository
	session   *session.Manager
	logger    *zap.Logger

	results *viewmodel.SearchViewModel
	library *viewmodel.SavedViewModel
}

// NewServer creates a new MCP server instance
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		search:  deps.Search,
		saved:   deps.Saved,
		session: deps.Session,
		logger:  logger,
		results: viewmodel.NewSearchViewModel(deps.Search, deps.Session),
		library: viewmodel.NewSavedViewModel(deps.Saved, deps.Session),
	}

	s.mcpServer = server.NewMCPServer(
		"newsdesk",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close releases the view models.
func (s *Server) Close() {
	s.results.Cleanup()
	s.library.Cleanup()
}
