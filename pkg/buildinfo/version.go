// Package buildinfo holds the version stamped into umlflow at link time.
//
//	go build -ldflags "-X github.com/matzehuels/umlflow/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/umlflow/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/umlflow/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The same values salt layout cache keys (see [CacheSalt]) and are reported
// by the HTTP health check.
package buildinfo

import "fmt"

// Set by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp in serializable form.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamp of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// CacheSalt identifies the engine that computed a cached layout. Releases
// use their version. Development builds add the short commit when one was
// stamped, so two dev binaries never share cached layouts.
func CacheSalt() string {
	if Version != "dev" || Commit == "none" || Commit == "" {
		return Version
	}
	return Version + "+" + shortCommit(Commit)
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, shortCommit(Commit), Date)
}
