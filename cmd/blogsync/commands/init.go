package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/index"
	"git.home.luguber.info/inful/blogsync/internal/sitefs"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	out := g.out()
	_, _ = fmt.Fprintln(out, "Initializing blogsync project")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	site := sitefs.New(cfg.Paths.Root, cfg.Paths.Index, cfg.Paths.Posts)
	created, err := bootstrapIndex(site, index.OptionsFromSite(cfg.Site))
	if err != nil {
		return err
	}
	if created {
		_, _ = fmt.Fprintf(out, "Wrote empty index to %s\n", site.IndexPath())
	} else {
		_, _ = fmt.Fprintf(out, "Keeping existing index %s\n", site.IndexPath())
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}

// bootstrapIndex writes a fresh index page unless one already exists, and
// makes sure the posts directory is present. An existing index is never
// overwritten, even with --force.
func bootstrapIndex(site *sitefs.Site, opts index.Options) (bool, error) {
	// #nosec G301 -- site directories are published content.
	if err := os.MkdirAll(site.PostsPath(), 0o755); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create posts directory").
			WithContext("path", site.PostsPath()).Build()
	}

	_, err := os.Stat(site.IndexPath())
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat index").
			WithContext("path", site.IndexPath()).Build()
	}

	page, err := index.Bootstrap(opts)
	if err != nil {
		return false, err
	}
	// #nosec G301 -- site directories are published content.
	if err := os.MkdirAll(filepath.Dir(site.IndexPath()), 0o755); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create site root").Build()
	}
	// #nosec G306 -- the index page is public content.
	if err := os.WriteFile(site.IndexPath(), page, 0o644); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write index").
			WithContext("path", site.IndexPath()).Build()
	}
	return true, nil
}
