// Package post turns a title/body pair into a standalone HTML page.
//
// It owns slug derivation (date or title based), excerpt truncation for index
// summaries, timestamp parsing for trigger payloads, and the page template.
// Rendered markdown is embedded verbatim; callers must trust the body.
package post
