// Package publish commits the files a run changed to the git repository that
// contains the site.
package publish

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// MessageData is available to the commit message template.
type MessageData struct {
	RunID string
	Mode  string
	Posts int
}

// Change lists the paths a run touched.
type Change struct {
	Written []string
	Deleted []string
}

// Committer records run output as git commits.
type Committer struct {
	author  string
	email   string
	message *template.Template
	now     func() time.Time
}

// NewCommitter compiles the message template from cfg.
func NewCommitter(cfg config.GitPublishConfig) (*Committer, error) {
	msg, err := template.New("message").Option("missingkey=error").Parse(cfg.Message)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse publish.git.message template").Fatal().Build()
	}
	return &Committer{author: cfg.AuthorName, email: cfg.AuthorEmail, message: msg, now: time.Now}, nil
}

// Commit stages the changed paths in the repository enclosing root and commits
// them. It returns the new commit hash, or "" when nothing changed.
func (c *Committer) Commit(root string, change Change, data MessageData) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "open git repository").
			WithContext("path", root).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "open worktree").Build()
	}
	repoRoot := wt.Filesystem.Root()

	for _, p := range change.Deleted {
		rel, err := relativeTo(repoRoot, p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Remove(rel); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
			return "", ferrors.WrapError(err, ferrors.CategoryPublish, "stage deletion").
				WithContext("path", rel).Build()
		}
	}
	for _, p := range change.Written {
		rel, err := relativeTo(repoRoot, p)
		if err != nil {
			return "", err
		}
		if _, err := wt.Add(rel); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryPublish, "stage file").
				WithContext("path", rel).Build()
		}
	}

	status, err := wt.Status()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "read worktree status").Build()
	}
	if !hasStaged(status) {
		slog.Info("Nothing to commit", logfields.Path(repoRoot))
		return "", nil
	}

	var msg bytes.Buffer
	if err := c.message.Execute(&msg, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "render commit message").Build()
	}

	hash, err := wt.Commit(strings.TrimSpace(msg.String()), &git.CommitOptions{
		Author: &object.Signature{Name: c.author, Email: c.email, When: c.now()},
	})
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "commit").Build()
	}
	slog.Info("Committed site changes", logfields.Commit(hash.String()), logfields.RunID(data.RunID))
	return hash.String(), nil
}

func hasStaged(status git.Status) bool {
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func relativeTo(repoRoot, p string) (string, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "resolve repository root").Build()
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryPublish, "resolve path").WithContext("path", p).Build()
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.PublishError("path is outside the repository").
			WithContext("path", p).WithContext("repository", absRoot).Build()
	}
	return filepath.ToSlash(rel), nil
}
