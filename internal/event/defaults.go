package event

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// Defaults fills in drafts that arrive without a title or body.
type Defaults struct {
	title      *template.Template
	body       *template.Template
	dateFormat string
	timeFormat string
	loc        *time.Location
}

type stamp struct {
	Date string
	Time string
}

// NewDefaults compiles the configured title and body templates.
func NewDefaults(defaults config.DefaultsConfig, site config.SiteConfig) (*Defaults, error) {
	title, err := template.New("title").Option("missingkey=error").Parse(defaults.Title)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse defaults.title template").Fatal().Build()
	}
	body, err := template.New("body").Option("missingkey=error").Parse(defaults.Body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse defaults.body template").Fatal().Build()
	}
	return &Defaults{
		title:      title,
		body:       body,
		dateFormat: site.DateFormat,
		timeFormat: site.TimeFormat,
		loc:        site.Location(),
	}, nil
}

// Apply returns d with CreatedAt, Title and Body filled where they were empty.
func (df *Defaults) Apply(d Draft, now time.Time) (Draft, error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.Source == "" {
		d.Source = SourceDefault
	}

	at := d.CreatedAt.In(df.loc)
	s := stamp{Date: at.Format(df.dateFormat), Time: at.Format(df.timeFormat)}

	if strings.TrimSpace(d.Title) == "" {
		title, err := execute(df.title, s)
		if err != nil {
			return Draft{}, err
		}
		d.Title = strings.TrimSpace(title)
	}
	if strings.TrimSpace(d.Body) == "" {
		body, err := execute(df.body, s)
		if err != nil {
			return Draft{}, err
		}
		d.Body = body
	}
	return d, nil
}

func execute(t *template.Template, data stamp) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render default post text").
			WithContext("template", t.Name()).Fatal().Build()
	}
	return buf.String(), nil
}
