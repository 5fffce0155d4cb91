// ABOUTME: Centralized configuration defaults for newsdesk
// ABOUTME: Contains endpoints, timeouts, paging sizes and display constants

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout = 30 * time.Second
	MaxResponseSize    = 10 * 1024 * 1024 // 10MB
	UserAgent          = "newsdesk/1.0 (news explorer)"
)

// Endpoints
const (
	DefaultExplorerURL  = "http://localhost:3000/"
	DefaultNewsAPIURL   = "https://newsapi.org/v2/everything"
	DefaultRSSSearchURL = "https://news.google.com/rss/search"
)

// Search settings
const (
	DefaultProvider     = "newsapi"
	DefaultPageSize     = 3
	NewsWindowDays      = 7
	NewsRequestSize     = 100
	SearchCacheSize     = 32
	SearchCacheTTL      = 5 * time.Minute
	SearchRateInterval  = time.Second
	SearchRateBurst     = 2
	KeywordSummaryLimit = 3
)

// Display settings
const (
	SeparatorWidth  = 60
	DisplayIDLength = 8
)

// Storage settings
const (
	DefaultDirPerms  = 0755
	DefaultFilePerms = 0600
)
