package index

import (
	"bytes"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

const childIndent = "    "

// Rebuild removes every summary block and placeholder from doc and replaces the
// content of <main> with summaries in the given order followed by the
// call-to-action. An empty list renders the placeholder instead.
func Rebuild(doc []byte, summaries []Summary, opts Options) ([]byte, error) {
	stale, err := findElements(doc, anyOf(isSummary, isPlaceholder))
	if err != nil {
		return nil, err
	}
	cleaned := removeElements(doc, stale)

	mains, err := findElements(cleaned, isMain)
	if err != nil {
		return nil, err
	}
	if len(mains) == 0 {
		return nil, ferrors.MalformedIndexError("index has no <main> region").Build()
	}
	region := mains[0]

	list, err := RenderList(summaries, opts)
	if err != nil {
		return nil, err
	}
	eol := lineEnding(cleaned)
	indent := lineIndent(cleaned, region.start)
	inner := eol + indent + childIndent + indentBlock(list, indent+childIndent, eol) + eol + indent

	out := make([]byte, 0, len(cleaned)+len(inner))
	out = append(out, cleaned[:region.openEnd]...)
	out = append(out, inner...)
	out = append(out, cleaned[region.closeStart:]...)
	return out, nil
}

// Insert adds s at the head of the post list. The placeholder and any block
// already linking to s.Link are removed first; everything else is kept byte for
// byte. The call-to-action block must be present.
func Insert(doc []byte, s Summary, opts Options) ([]byte, error) {
	stale, err := findElements(doc, isPlaceholder)
	if err != nil {
		return nil, err
	}
	existing, err := findElements(doc, isSummary)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if slices.Contains(e.links, s.Link) {
			stale = append(stale, e)
		}
	}
	cleaned := removeElements(doc, stale)

	ctas, err := findElements(cleaned, isCreatePost)
	if err != nil {
		return nil, err
	}
	if len(ctas) == 0 {
		return nil, ferrors.MalformedIndexError("index has no call-to-action block").Build()
	}
	at := ctas[0].start

	remaining, err := findElements(cleaned, isSummary)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 && remaining[0].start < at {
		at = remaining[0].start
	}

	block, err := RenderSummary(s)
	if err != nil {
		return nil, err
	}
	eol := lineEnding(cleaned)
	indent := lineIndent(cleaned, at)
	insertion := indentBlock(block, indent, eol)
	if indent != "" {
		insertion += eol + indent
	}

	out := make([]byte, 0, len(cleaned)+len(insertion))
	out = append(out, cleaned[:at]...)
	out = append(out, insertion...)
	out = append(out, cleaned[at:]...)
	return out, nil
}

// List reads the published summaries back from an index document.
func List(doc []byte) ([]Summary, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryMalformedIndex, "parse index").Fatal().Build()
	}

	var out []Summary
	d.Find("article.post").Each(func(_ int, sel *goquery.Selection) {
		title := sel.Find("a.post-title").First()
		if title.Length() == 0 {
			title = sel.Find("h2").First()
		}
		link, _ := sel.Find("a").First().Attr("href")
		out = append(out, Summary{
			Title:   trimText(title.Text()),
			Date:    trimText(sel.Find(".post-date").First().Text()),
			Excerpt: trimText(sel.Find(".post-excerpt").First().Text()),
			Link:    link,
			Pinned:  sel.HasClass("pinned"),
		})
	})
	return out, nil
}

// HasPlaceholder reports whether doc currently shows the empty-list placeholder.
func HasPlaceholder(doc []byte) (bool, error) {
	found, err := findElements(doc, isPlaceholder)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func trimText(s string) string {
	return strings.TrimSpace(s)
}
