package enums

import "fmt"

// UploadStatus tracks an uploaded image from staging to order attachment.
type UploadStatus string

const (
	UploadStatusPending  UploadStatus = "pending"
	UploadStatusAttached UploadStatus = "attached"
	UploadStatusOrphaned UploadStatus = "orphaned"
)

var validUploadStatuses = []UploadStatus{
	UploadStatusPending,
	UploadStatusAttached,
	UploadStatusOrphaned,
}

// IsValid reports whether the value matches the canonical upload status enum.
func (u UploadStatus) IsValid() bool {
	for _, candidate := range validUploadStatuses {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUploadStatus converts the raw string to UploadStatus.
func ParseUploadStatus(value string) (UploadStatus, error) {
	for _, candidate := range validUploadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload status %q", value)
}
