// ABOUTME: Raw provider records ingested by the repository parsers
// ABOUTME: SavedItem mirrors the saved-articles API payload, SearchItem a search provider match

package models

// SavedItem is one entry of the user's saved-articles list as returned by the server.
type SavedItem struct {
	ID      string `json:"_id,omitempty"`
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Date    string `json:"date"`
	Source  string `json:"source"`
	Link    string `json:"link"`
	Image   string `json:"image,omitempty"`
}

// Fields maps the saved item onto article content.
func (s SavedItem) Fields() Fields {
	return Fields{
		Keyword:     s.Keyword,
		Title:       s.Title,
		Summary:     s.Text,
		PublishedAt: s.Date,
		Source:      s.Source,
		URL:         s.Link,
		ImageURL:    s.Image,
	}
}

// SearchItem is one match returned by a search provider.
type SearchItem struct {
	Title       string
	Description string
	URL         string
	URLToImage  string
	PublishedAt string
	SourceName  string
}

// Fields maps the search match onto article content tagged with keyword.
func (s SearchItem) Fields(keyword string) Fields {
	return Fields{
		Keyword:     keyword,
		Title:       s.Title,
		Summary:     s.Description,
		PublishedAt: s.PublishedAt,
		Source:      s.SourceName,
		URL:         s.URL,
		ImageURL:    s.URLToImage,
	}
}

// ToSavedItem builds the create payload for a.
func ToSavedItem(a *Article) SavedItem {
	return SavedItem{
		Keyword: a.Keyword,
		Title:   a.Title,
		Text:    a.Summary,
		Date:    a.RawPublishedAt,
		Source:  a.Source,
		Link:    a.URL,
		Image:   a.ImageURL,
	}
}
