package index

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var fragments = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type listData struct {
	Summaries []Summary
	Options   Options
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render index fragment").
			WithContext("template", name).Fatal().Build()
	}
	return buf.String(), nil
}

// RenderSummary renders a single summary block.
func RenderSummary(s Summary) (string, error) {
	return render("summary", s)
}

// RenderList renders the post list slot: the summaries in order, or the
// placeholder when there are none, followed by the call-to-action.
func RenderList(summaries []Summary, opts Options) (string, error) {
	return render("post-list", listData{Summaries: summaries, Options: opts})
}

// Bootstrap returns a fresh index page in the placeholder state.
func Bootstrap(opts Options) ([]byte, error) {
	page, err := render("page", opts)
	if err != nil {
		return nil, err
	}
	return Rebuild([]byte(page), nil, opts)
}

// indentBlock prefixes every non-empty line after the first with indent and
// joins the lines with eol.
func indentBlock(block, indent, eol string) string {
	if indent == "" && eol == "\n" {
		return block
	}
	lines := strings.Split(block, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, eol)
}

// lineEnding returns "\r\n" when doc's first line break is CRLF, else "\n".
func lineEnding(doc []byte) string {
	if i := bytes.IndexByte(doc, '\n'); i > 0 && doc[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// lineIndent returns the whitespace between the start of pos's line and pos,
// or "" when other content precedes pos on that line.
func lineIndent(doc []byte, pos int) string {
	i := pos
	for i > 0 && (doc[i-1] == ' ' || doc[i-1] == '\t') {
		i--
	}
	if i > 0 && doc[i-1] != '\n' {
		return ""
	}
	return string(doc[i:pos])
}
