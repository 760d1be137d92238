package sitefs

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// Site locates the published artifacts.
type Site struct {
	root      string
	indexName string
	postsDir  string
}

// New returns a Site rooted at root. postsDir is relative to root.
func New(root, indexName, postsDir string) *Site {
	if root == "" {
		root = "."
	}
	return &Site{root: root, indexName: indexName, postsDir: postsDir}
}

// Root returns the site root directory.
func (s *Site) Root() string { return s.root }

// IndexPath returns the index page path.
func (s *Site) IndexPath() string { return filepath.Join(s.root, s.indexName) }

// PostsPath returns the posts directory path.
func (s *Site) PostsPath() string { return filepath.Join(s.root, s.postsDir) }

// PostPath returns the path of one post page.
func (s *Site) PostPath(fileName string) string { return filepath.Join(s.PostsPath(), fileName) }

// PostLink returns the index-relative link to one post page.
func (s *Site) PostLink(fileName string) string {
	return path.Join(filepath.ToSlash(s.postsDir), fileName)
}

// ReadIndex loads the index page.
func (s *Site) ReadIndex() ([]byte, error) {
	data, err := os.ReadFile(s.IndexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "index page not found").
				WithContext("path", s.IndexPath()).
				WithContext("hint", "run 'blogsync init' to create one").Fatal().Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read index page").
			WithContext("path", s.IndexPath()).Fatal().Build()
	}
	return data, nil
}

// ListPosts returns the post page names currently published, sorted.
func (s *Site) ListPosts() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.PostsPath(), "*.html"))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "list posts").Fatal().Build()
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Unlisted returns the published post pages that none of links points at.
func (s *Site) Unlisted(links []string) ([]string, error) {
	names, err := s.ListPosts()
	if err != nil {
		return nil, err
	}
	listed := make(map[string]struct{}, len(links))
	for _, l := range links {
		listed[l] = struct{}{}
	}
	var out []string
	for _, name := range names {
		if _, ok := listed[s.PostLink(name)]; !ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// ClearPosts deletes every published post page.
func (s *Site) ClearPosts() ([]string, error) {
	return ClearPosts(s.PostsPath())
}

// ClearPosts deletes every *.html file directly inside dir and creates dir when
// it does not exist. Other files and subdirectories are left alone. The deleted
// paths are returned in name order.
func ClearPosts(dir string) ([]string, error) {
	// #nosec G301 -- published site directories are world-readable.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create posts directory").
			WithContext("path", dir).Fatal().Build()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read posts directory").
			WithContext("path", dir).Fatal().Build()
	}

	var deleted []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, ferrors.WrapError(err, ferrors.CategoryFileSystem, "delete post").
				WithContext("path", p).Fatal().Build()
		}
		slog.Debug("Deleted post", logfields.Path(p))
		deleted = append(deleted, p)
	}
	return deleted, nil
}
