package index

import "git.home.luguber.info/inful/blogsync/internal/config"

// Summary is one entry of the index post list.
type Summary struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
	Link    string `json:"link"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// Options carries the site texts used when rendering index fragments.
type Options struct {
	SiteTitle      string
	Lang           string
	CreatePostURL  string
	CreatePostText string
	NoPostsText    string
}

// OptionsFromSite maps site configuration onto index options.
func OptionsFromSite(site config.SiteConfig) Options {
	return Options{
		SiteTitle:      site.Title,
		Lang:           site.Lang,
		CreatePostURL:  site.CreatePostURL,
		CreatePostText: site.CreatePostText,
		NoPostsText:    site.NoPostsText,
	}
}
