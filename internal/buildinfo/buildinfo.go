// Package buildinfo exposes version metadata stamped in with -ldflags -X.
package buildinfo

import "fmt"

// Local builds keep these defaults.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildDate = "unknown"
)

// Summary renders the build metadata on one line.
func Summary() string {
	return fmt.Sprintf("%s (commit %s, branch %s, built %s)", Version, GitCommit, GitBranch, BuildDate)
}
