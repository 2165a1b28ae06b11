package version

// Version information set via ldflags during build.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// UserAgent identifies this client on outbound webhook requests.
func UserAgent() string {
	return "granola-sync/" + Version
}
