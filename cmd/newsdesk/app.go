// ABOUTME: Application wiring shared by every command
// ABOUTME: Builds the explorer client, search provider, session manager and repositories from config

package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/explorer"
	"github.com/harper/newsdesk/internal/newsapi"
	"github.com/harper/newsdesk/internal/repository"
	"github.com/harper/newsdesk/internal/rss"
	"github.com/harper/newsdesk/internal/session"
)

// App holds the collaborators a command works with.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Explorer *explorer.Client
	Session  *session.Manager
	Saved    *repository.Repository
	Search   *repository.Search

	unguard func()
}

// NewApp wires the application from cfg. A stored token is restored; an
// expired one is forgotten.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	client, err := explorer.New(cfg.GetExplorerURL(), "")
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	sess := session.New(client,
		session.WithLogger(logger.Named("session")),
		session.WithTerminator(forgetToken(cfg)),
	)
	if err := sess.Restore(cfg.Token); err != nil {
		if !errors.Is(err, session.ErrTokenExpired) {
			return nil, err
		}
		logger.Info("stored session expired, signing out")
		_ = sess.Logout()
	}

	saved := repository.New(client,
		repository.WithLogger(logger.Named("saved")),
		repository.WithDisposeOnRemove(true),
	)
	results := repository.New(client, repository.WithLogger(logger.Named("results")))
	search := repository.NewSearch(results, provider,
		repository.WithPageSize(cfg.GetPageSize()),
		repository.WithSearchLogger(logger.Named("search")),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Explorer: client,
		Session:  sess,
		Saved:    saved,
		Search:   search,
		unguard:  sess.Guard(saved),
	}, nil
}

// Close waits for outstanding requests and releases the repositories.
func (a *App) Close() {
	a.unguard()
	a.Search.Repository().Wait()
	a.Search.Close()
	a.Saved.Wait()
	a.Saved.Clear()
}

func newProvider(cfg *config.Config, logger *zap.Logger) (repository.SearchProvider, error) {
	switch cfg.GetProvider() {
	case "newsapi":
		return newsapi.New(cfg.GetNewsAPIURL(), cfg.NewsAPIKey, newsapi.WithLogger(logger.Named("newsapi"))), nil
	case "rss":
		return rss.New(cfg.GetRSSSearchURL(), rss.WithLogger(logger.Named("rss"))), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q (want newsapi or rss)", cfg.Provider)
	}
}

// forgetToken removes the stored session token from the config file.
func forgetToken(cfg *config.Config) session.Terminator {
	return session.TerminatorFunc(func() error {
		if cfg.Token == "" {
			return nil
		}
		cfg.Token = ""
		return cfg.Save()
	})
}
