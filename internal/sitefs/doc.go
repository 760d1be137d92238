// Package sitefs owns the on-disk site: the index page at the root and the
// directory of rendered posts.
//
// Writes go through a Changeset. Every file is staged first and moved into
// place by Commit, posts before the index, so a failure while rendering never
// touches the published site.
package sitefs
