package routes

import (
	"net/http"
	"runtime"

	"pixbatch/config"
)

// VersionResponse represents the version information response
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
}

func currentVersion() VersionResponse {
	return VersionResponse{
		Version:   config.Version,
		BuildTime: config.BuildTime,
		GoVersion: runtime.Version(),
		GitCommit: config.GitCommit,
	}
}

// VersionHandler provides version information about the build
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentVersion())
}
