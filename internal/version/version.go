// Package version reports the build of the dictquery binary.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/satishbabariya/dictquery/dictionary"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
	// DictionaryFormat is the range of dictionary file versions the
	// loader accepts.
	DictionaryFormat string
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:          Version,
		BuildDate:        BuildDate,
		GitCommit:        GitCommit,
		GoVersion:        runtime.Version(),
		Platform:         runtime.GOOS + "/" + runtime.GOARCH,
		DictionaryFormat: dictionary.SupportedFormat,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("dictquery %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString lists every field, one per line.
func (i Info) FullString() string {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"Version", i.Version},
		{"Dictionary format", i.DictionaryFormat},
		{"Git commit", i.GitCommit},
		{"Build date", i.BuildDate},
		{"Go", i.GoVersion},
		{"Platform", i.Platform},
	} {
		fmt.Fprintf(&b, "%-18s %s\n", kv[0]+":", kv[1])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
