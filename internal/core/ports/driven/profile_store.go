package driven

// ProfileStore persists non-secret connection settings between runs,
// currently just the instance base URL.
type ProfileStore interface {
	// BaseURL returns the persisted instance URL, empty if none.
	BaseURL() string

	// SetBaseURL persists the instance URL.
	SetBaseURL(url string) error

	// ClearBaseURL removes the persisted URL. Used when a stored URL
	// turns out to be unreachable.
	ClearBaseURL() error
}
