// Package pipeline runs the two blogsync modes.
//
// Resync clears the posts directory, optionally writes one dated post, and
// rebuilds the index list from scratch. Append writes one post and inserts its
// summary at the head of the existing list. Both modes render everything into a
// staging directory before touching the site.
package pipeline
