// Package index maintains the post list inside the site's index page.
//
// Rebuild and Insert are pure functions over the document bytes. Blocks are
// located with an HTML tokenizer that tracks element depth, so nested markup and
// neighbouring unrelated elements survive a splice intact. New fragments come
// from the named templates in templates/index.html.tmpl.
package index
