package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetDataDir returns the directory where pixbatch keeps its databases and spool.
// Priority: PIXBATCH_DATA_DIR environment variable > "./data" default.
// The environment is read on every call so tests can point it elsewhere.
func GetDataDir() string {
	if dir := os.Getenv("PIXBATCH_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetHistoryDBPath returns the path to the batch history database.
// Path: {DATA_DIR}/history.db
func GetHistoryDBPath() string {
	return filepath.Join(GetDataDir(), "history.db")
}

// GetCredentialsDBPath returns the path to the mirror credentials database.
// Path: {DATA_DIR}/credentials.db
func GetCredentialsDBPath() string {
	return filepath.Join(GetDataDir(), "credentials.db")
}

// GetSpoolDir returns the directory watched for batch manifests.
// Configurable via PIXBATCH_SPOOL_DIR, defaults to {DATA_DIR}/spool.
func GetSpoolDir() string {
	if dir := os.Getenv("PIXBATCH_SPOOL_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(GetDataDir(), "spool")
}

// GetMirrorDir returns the base directory used by the "dir" mirror backend.
// Only server administrators can move it; batch requests can only pick a
// folder below it.
func GetMirrorDir() string {
	if dir := os.Getenv("PIXBATCH_MIRROR_DIR"); dir != "" {
		return dir
	}
	return "./mirror"
}

// GetListenAddr returns the HTTP listen address.
func GetListenAddr() string {
	if addr := os.Getenv("PIXBATCH_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// GetJWTSecret returns the shared HS256 secret used to verify bearer tokens.
// An empty secret disables the /batch endpoint.
func GetJWTSecret() []byte {
	return []byte(os.Getenv("PIXBATCH_JWT_SECRET"))
}

// GetJWTIssuer returns the expected token issuer; empty means any issuer.
func GetJWTIssuer() string {
	return os.Getenv("PIXBATCH_JWT_ISSUER")
}

// GetLogLevel returns the configured log level name (debug, info, warn, error).
func GetLogLevel() string {
	if level := os.Getenv("PIXBATCH_LOG_LEVEL"); level != "" {
		return level
	}
	return "debug"
}

// GetLogFile returns the optional log file path. Empty logs to console only.
func GetLogFile() string {
	return os.Getenv("PIXBATCH_LOG_FILE")
}

// GetHistoryMaxAge returns how long batch records are kept before the
// cleanup routine removes them. Invalid values fall back to 30 days.
func GetHistoryMaxAge() time.Duration {
	if v := os.Getenv("PIXBATCH_HISTORY_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 30 * 24 * time.Hour
}
