package event

import "time"

// GitHub Actions environment variables describing the triggering event.
const (
	EnvEventName = "GITHUB_EVENT_NAME"
	EnvEventPath = "GITHUB_EVENT_PATH"

	EventWorkflowDispatch = "workflow_dispatch"
)

// GitHubTrigger describes the Actions event the process was started for.
type GitHubTrigger struct {
	Name string
	Path string
}

// GitHubFromEnv reads the Actions event variables through getenv.
func GitHubFromEnv(getenv func(string) string) GitHubTrigger {
	return GitHubTrigger{Name: getenv(EnvEventName), Path: getenv(EnvEventPath)}
}

// Present reports whether the process runs under an Actions event.
func (g GitHubTrigger) Present() bool {
	return g.Name != ""
}

// CreatesPost reports whether a resync should create a dated post: only a
// manual dispatch does.
func (g GitHubTrigger) CreatesPost() bool {
	return g.Name == EventWorkflowDispatch
}

// Draft loads the event payload when one is available. ok is false when the
// event carries no payload file.
func (g GitHubTrigger) Draft(loc *time.Location) (d Draft, ok bool, err error) {
	if g.Path == "" {
		return Draft{}, false, nil
	}
	d, err = Load(g.Path, loc)
	if err != nil {
		return Draft{}, false, err
	}
	return d, true, nil
}
