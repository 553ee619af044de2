package models

// PageStatus is the state of a URL in the visited store
type PageStatus string

const (
	PageStatusUnset    PageStatus = ""          // Zero value = unset/unknown
	PageStatusPending  PageStatus = "pending"   // In the frontier, not rendered yet
	PageStatusSuccess  PageStatus = "success"   // Rendered
	PageStatusFailure  PageStatus = "failure"   // Render failed or skipped by policy; never retried in the run
	PageStatusNotFound PageStatus = "not_found" // Never seen
	PageStatusDBError  PageStatus = "db_error"  // Store error
)

// String implements fmt.Stringer for logging
func (s PageStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known operational value
func (s PageStatus) IsValid() bool {
	switch s {
	case PageStatusPending, PageStatusSuccess, PageStatusFailure:
		return true
	}
	return false
}

// ImageStatus is the enrichment state of an image
type ImageStatus string

const (
	ImageStatusUnset    ImageStatus = ""          // Zero value = unset/unknown
	ImageStatusPending  ImageStatus = "pending"   // Selected for analysis
	ImageStatusSuccess  ImageStatus = "success"   // Vision answered
	ImageStatusFailure  ImageStatus = "failure"   // Vision call failed; fields stay empty
	ImageStatusSkipped  ImageStatus = "skipped"   // Beyond the vision budget or vision unavailable
	ImageStatusNotFound ImageStatus = "not_found" // Not in cache
	ImageStatusDBError  ImageStatus = "db_error"  // Cache error
)

// String implements fmt.Stringer for logging
func (s ImageStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known operational value
func (s ImageStatus) IsValid() bool {
	switch s {
	case ImageStatusPending, ImageStatusSuccess, ImageStatusFailure, ImageStatusSkipped:
		return true
	}
	return false
}
