package index

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// element is the byte extent of one matched element in a document.
type element struct {
	start      int // '<' of the opening tag
	openEnd    int // just past the opening tag
	closeStart int // '<' of the matching closing tag
	end        int // just past the closing tag
	links      []string
}

type matcher func(tok html.Token) bool

func hasClass(tok html.Token, class string) bool {
	for _, a := range tok.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

func isSummary(tok html.Token) bool     { return tok.Data == "article" && hasClass(tok, "post") }
func isPlaceholder(tok html.Token) bool { return tok.Data == "div" && hasClass(tok, "no-posts") }
func isCreatePost(tok html.Token) bool  { return tok.Data == "div" && hasClass(tok, "create-post") }
func isMain(tok html.Token) bool        { return tok.Data == "main" }

func anyOf(ms ...matcher) matcher {
	return func(tok html.Token) bool {
		for _, m := range ms {
			if m(tok) {
				return true
			}
		}
		return false
	}
}

// findElements returns the outermost elements accepted by match, in document
// order. Nested elements with the same tag name are balanced by depth, and the
// href of every anchor inside a match is collected.
func findElements(doc []byte, match matcher) ([]element, error) {
	z := html.NewTokenizer(bytes.NewReader(doc))

	var (
		found  []element
		cur    *element
		tag    string
		depth  int
		offset int
	)
	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return nil, ferrors.WrapError(z.Err(), ferrors.CategoryMalformedIndex, "tokenize index").Fatal().Build()
			}
			if cur != nil {
				return nil, ferrors.MalformedIndexError("unterminated element").
					WithContext("tag", tag).WithContext("offset", cur.start).Build()
			}
			return found, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if cur == nil {
				if tt == html.StartTagToken && match(tok) {
					cur = &element{start: start, openEnd: offset}
					tag = tok.Data
					depth = 1
				}
				continue
			}
			if tok.Data == "a" {
				for _, a := range tok.Attr {
					if a.Key == "href" {
						cur.links = append(cur.links, a.Val)
					}
				}
			}
			if tt == html.StartTagToken && tok.Data == tag {
				depth++
			}

		case html.EndTagToken:
			if cur == nil {
				continue
			}
			name, _ := z.TagName()
			if string(name) != tag {
				continue
			}
			depth--
			if depth == 0 {
				cur.closeStart = start
				cur.end = offset
				found = append(found, *cur)
				cur = nil
			}
		}
	}
}

// removeElements cuts the given elements out of doc. An element that sits alone
// on its line takes its indentation and line break with it.
func removeElements(doc []byte, elems []element) []byte {
	if len(elems) == 0 {
		return doc
	}
	elems = slices.Clone(elems)
	slices.SortFunc(elems, func(a, b element) int { return a.start - b.start })

	out := make([]byte, 0, len(doc))
	last := 0
	for _, e := range elems {
		if e.start < last {
			continue // nested inside an element already removed
		}
		from, to := lineExtent(doc, e.start, e.end)
		if from < last {
			from = last
		}
		out = append(out, doc[last:from]...)
		last = to
	}
	return append(out, doc[last:]...)
}

func lineExtent(doc []byte, start, end int) (int, int) {
	from := start
	for from > 0 && (doc[from-1] == ' ' || doc[from-1] == '\t') {
		from--
	}
	if from > 0 && doc[from-1] != '\n' {
		return start, end
	}
	to := end
	for to < len(doc) && (doc[to] == ' ' || doc[to] == '\t' || doc[to] == '\r') {
		to++
	}
	switch {
	case to == len(doc):
		return from, to
	case doc[to] == '\n':
		return from, to + 1
	default:
		return start, end
	}
}
