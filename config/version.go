package config

// Build-time variables, set with
// -ldflags "-X pixbatch/config.Version=... -X pixbatch/config.BuildTime=... -X pixbatch/config.GitCommit=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
