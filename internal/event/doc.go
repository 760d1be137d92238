// Package event turns trigger payloads into post drafts.
//
// A draft can come from a workflow dispatch payload, an issue event, command
// line flags, or a markdown file with YAML frontmatter. Missing titles and
// bodies are filled from configurable text templates stamped with the current
// date and time.
package event
