package buildinfo

import "runtime"

// Set with -ldflags "-X github.com/StevenGantumur/Woodmans-Tracker/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

const Service = "woodmans-tracker"

func Info() map[string]string {
	return map[string]string{
		"service":   Service,
		"version":   Version,
		"commit":    Commit,
		"builtAt":   BuiltAt,
		"goVersion": runtime.Version(),
	}
}
