package config

// Default values mirror the original blog layout: a Chinese-language site with
// index.html at the repository root and rendered posts under posts/.
const (
	DefaultIndexFile     = "index.html"
	DefaultPostsDir      = "posts"
	DefaultExcerptLength = 200
	DefaultExcerptMarker = "..."
	DefaultDateFormat    = "2006-01-02"
	DefaultTimeFormat    = "15:04:05"
)

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	applySiteDefaults(&cfg.Site)

	if cfg.Paths.Root == "" {
		cfg.Paths.Root = "."
	}
	if cfg.Paths.Index == "" {
		cfg.Paths.Index = DefaultIndexFile
	}
	if cfg.Paths.Posts == "" {
		cfg.Paths.Posts = DefaultPostsDir
	}

	if cfg.Slug.Resync == "" {
		cfg.Slug.Resync = SlugByDate
	}
	if cfg.Slug.Append == "" {
		cfg.Slug.Append = SlugByTitle
	}

	if cfg.Excerpt.Length <= 0 {
		cfg.Excerpt.Length = DefaultExcerptLength
	}
	if cfg.Excerpt.Marker == "" {
		cfg.Excerpt.Marker = DefaultExcerptMarker
	}

	if len(cfg.Markdown.Extensions) == 0 {
		cfg.Markdown.Extensions = []string{"gfm", "linkify", "tasklist"}
	}

	if cfg.Defaults.Title == "" {
		cfg.Defaults.Title = "{{ .Date }} 记录"
	}
	if cfg.Defaults.Body == "" {
		cfg.Defaults.Body = "今天是 {{ .Date }}，现在是 {{ .Time }}。"
	}

	if cfg.Watch.Inbox == "" {
		cfg.Watch.Inbox = "inbox"
	}

	if cfg.Publish.Git.AuthorName == "" {
		cfg.Publish.Git.AuthorName = "blogsync"
	}
	if cfg.Publish.Git.AuthorEmail == "" {
		cfg.Publish.Git.AuthorEmail = "blogsync@localhost"
	}
	if cfg.Publish.Git.Message == "" {
		cfg.Publish.Git.Message = "Update blog ({{ .Mode }}: {{ .Posts }} posts)"
	}

	if cfg.Notify.NATS.URL == "" {
		cfg.Notify.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Notify.NATS.Subject == "" {
		cfg.Notify.NATS.Subject = "blogsync.posts.published"
	}

	if cfg.History.Path == "" {
		cfg.History.Path = ".blogsync/history.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

func applySiteDefaults(site *SiteConfig) {
	if site.Title == "" {
		site.Title = "我的博客"
	}
	if site.Lang == "" {
		site.Lang = "zh-CN"
	}
	if site.DateFormat == "" {
		site.DateFormat = DefaultDateFormat
	}
	if site.TimeFormat == "" {
		site.TimeFormat = DefaultTimeFormat
	}
	if site.CreatePostText == "" {
		site.CreatePostText = "✍️ 写新文章"
	}
	if site.NoPostsText == "" {
		site.NoPostsText = "还没有博客文章，点击下方按钮创建第一篇文章！"
	}
	if site.BackLinkText == "" {
		site.BackLinkText = "← 返回首页"
	}
}
