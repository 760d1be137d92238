package sitefs

import (
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
	"git.home.luguber.info/inful/blogsync/internal/workspace"
)

type stagedFile struct {
	staged string
	target string
}

// Changeset collects rendered files in a staging directory until Commit.
type Changeset struct {
	site    *Site
	ws      *workspace.Manager
	posts   []stagedFile
	index   *stagedFile
	clear   bool
	deleted []string
}

// Begin opens a changeset with its own staging directory under the site root.
func (s *Site) Begin() (*Changeset, error) {
	ws := workspace.NewManager(s.root)
	if err := ws.Create(); err != nil {
		return nil, err
	}
	return &Changeset{site: s, ws: ws}, nil
}

// ClearPosts schedules removal of every existing post page. It runs at commit
// time, before staged posts are moved in.
func (c *Changeset) ClearPosts() {
	c.clear = true
}

// WritePost stages a post page.
func (c *Changeset) WritePost(fileName string, content []byte) error {
	if fileName == "" || filepath.Base(fileName) != fileName {
		return ferrors.InvalidSlugError("post file name must be a single path segment").
			WithContext("file", fileName).Build()
	}
	staged, err := c.ws.Stage(filepath.Join("posts", fileName), content)
	if err != nil {
		return err
	}
	c.posts = append(c.posts, stagedFile{staged: staged, target: c.site.PostPath(fileName)})
	return nil
}

// WriteIndex stages the index page.
func (c *Changeset) WriteIndex(content []byte) error {
	staged, err := c.ws.Stage(c.site.indexName, content)
	if err != nil {
		return err
	}
	c.index = &stagedFile{staged: staged, target: c.site.IndexPath()}
	return nil
}

// Deleted returns the post pages removed by the last Commit.
func (c *Changeset) Deleted() []string {
	return c.deleted
}

// Commit publishes the staged files and returns their final paths, posts first
// and the index last. The staging directory is removed afterwards.
func (c *Changeset) Commit() ([]string, error) {
	defer c.Discard()

	if c.clear {
		deleted, err := c.site.ClearPosts()
		c.deleted = deleted
		if err != nil {
			return nil, err
		}
	} else if len(c.posts) > 0 {
		// #nosec G301 -- published site directories are world-readable.
		if err := os.MkdirAll(c.site.PostsPath(), 0o755); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create posts directory").
				WithContext("path", c.site.PostsPath()).Fatal().Build()
		}
	}

	files := c.posts
	if c.index != nil {
		files = append(files, *c.index)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.Rename(f.staged, f.target); err != nil {
			return written, ferrors.WrapError(err, ferrors.CategoryFileSystem, "publish file").
				WithContext("path", f.target).Fatal().Build()
		}
		slog.Debug("Published file", logfields.Path(f.target))
		written = append(written, f.target)
	}
	return written, nil
}

// Discard drops everything staged. It is safe to call after Commit.
func (c *Changeset) Discard() {
	if err := c.ws.Cleanup(); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(c.ws.Path()), logfields.Error(err))
	}
}
