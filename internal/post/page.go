package post

import (
	"bytes"
	"embed"
	"html/template"
	"path"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

//go:embed templates/post.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/post.html.tmpl"))

// Converter renders markdown to HTML.
type Converter interface {
	Convert(src []byte) ([]byte, error)
}

// Builder renders post pages for one site.
type Builder struct {
	site      config.SiteConfig
	postsDir  string
	indexName string
	md        Converter
}

// NewBuilder returns a Builder. postsDir and indexName are used to compute the
// relative back link from a post page to the index.
func NewBuilder(site config.SiteConfig, postsDir, indexName string, md Converter) *Builder {
	return &Builder{site: site, postsDir: postsDir, indexName: indexName, md: md}
}

type pageData struct {
	Lang         string
	Title        string
	SiteTitle    string
	Date         string
	Content      template.HTML
	BackLink     string
	BackLinkText string
	Fingerprint  string
}

// Build renders p as a complete HTML document. The title is escaped; the
// rendered body is embedded without sanitization.
func (b *Builder) Build(p Post) (string, error) {
	body, err := b.md.Convert([]byte(p.Body))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render post body").
			WithContext("slug", p.Slug).Fatal().Build()
	}

	data := pageData{
		Lang:         b.site.Lang,
		Title:        p.Title,
		SiteTitle:    b.site.Title,
		Date:         b.DisplayDate(p),
		Content:      template.HTML(strings.TrimRight(string(body), "\n")), // #nosec G203 -- post bodies are trusted input
		BackLink:     backLink(b.postsDir, b.indexName),
		BackLinkText: b.site.BackLinkText,
		Fingerprint:  Fingerprint(p),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "execute post template").
			WithContext("slug", p.Slug).Fatal().Build()
	}
	return buf.String(), nil
}

// DisplayDate formats the post's creation time with the site's date layout.
func (b *Builder) DisplayDate(p Post) string {
	return DisplayDate(p.CreatedAt, b.site.DateFormat, b.site.Location())
}

// Fingerprint hashes the title and body so republished content can be recognised.
func Fingerprint(p Post) string {
	return mdfp.CalculateFingerprintFromParts("title: "+p.Title, p.Body)
}

// backLink climbs out of postsDir to reach the index page.
func backLink(postsDir, indexName string) string {
	clean := path.Clean(strings.ReplaceAll(postsDir, "\\", "/"))
	depth := len(strings.Split(clean, "/"))
	return strings.Repeat("../", depth) + indexName
}
