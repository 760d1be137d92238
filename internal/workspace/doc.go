// Package workspace manages the per-run staging directory where rendered files
// are written before they are moved into the published site.
//
// The staging directory is created inside the site root so the final rename
// stays on one filesystem. Cleanup removes it whether or not the run succeeded.
package workspace
