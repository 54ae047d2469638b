package models

// TranscodeJob is one resize + re-encode + write request.
// Width and Height are the exact output dimensions; aspect ratio is not preserved.
type TranscodeJob struct {
	SourcePath      string       `json:"source_path" yaml:"source_path" validate:"required"`
	DestinationPath string       `json:"destination_path" yaml:"destination_path" validate:"required"`
	Width           uint32       `json:"target_width" yaml:"target_width" validate:"gt=0"`
	Height          uint32       `json:"target_height" yaml:"target_height" validate:"gt=0"`
	Format          OutputFormat `json:"output_format" yaml:"output_format"`
	Quality         uint8        `json:"quality" yaml:"quality" validate:"min=1,max=100"` // 1–100
}

// MirrorTarget names a storage backend that receives a copy of every file
// written by a successful batch.
type MirrorTarget struct {
	Type           string `json:"type" yaml:"type"`                                           // "s3", "gcs", "sftp" or "dir"
	CredentialsKey string `json:"credentials_key,omitempty" yaml:"credentials_key,omitempty"` // key in the credentials store
	Folder         string `json:"folder,omitempty" yaml:"folder,omitempty"`                   // prefix / subdirectory on the backend
}

// BatchRequest is what callers submit: an ordered job list plus optional mirrors.
type BatchRequest struct {
	Jobs    []TranscodeJob `json:"jobs" yaml:"jobs"`
	Mirrors []MirrorTarget `json:"mirrors,omitempty" yaml:"mirrors,omitempty"`
}

// BatchResult is only produced when every job in the batch was written.
type BatchResult struct {
	Success    bool `json:"success"`
	SavedCount uint `json:"saved_count"`
}
