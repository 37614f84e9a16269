package apperrors

import "fmt"

// User-facing messages the catalog attaches to reinterpreted upstream responses.
const (
	MsgAnimeNotFound      = "Anime that you are looking for is not found"
	MsgSearchEmpty        = "Can't find anime that you are looking for"
	MsgRecentEpisodeEmpty = "Failed to fetch recent episodes"
	MsgPopularListFailed  = "Failed to fetch popular anime list"
	MsgUnknown            = "An unknown error occurred"
	MsgListFetchFailed    = "An error occurred while retrieving anime data"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewAnimeNotFoundError creates a specific error for when an anime detail lookup fails.
func NewAnimeNotFoundError(animeID string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "anime",
		ID:       animeID,
	}
}

// ErrEmptyResult is returned when a successful upstream response carries zero results
// and the flow treats that as a failure rather than an empty state.
type ErrEmptyResult struct {
	Resource string
	Message  string
}

// Error implements the error interface.
func (e *ErrEmptyResult) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("no %s found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrEmptyResult) Is(target error) bool {
	_, ok := target.(*ErrEmptyResult)
	return ok
}

// ErrUpstream represents a non-2xx response or a transport failure talking to the upstream API.
// StatusCode is 0 when no response was received.
type ErrUpstream struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ErrUpstream) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream request failed: %s", e.Message)
}

// Is allows for error checking with errors.Is().
func (e *ErrUpstream) Is(target error) bool {
	_, ok := target.(*ErrUpstream)
	return ok
}

// ErrStorageAccess wraps a failure reading or writing the persisted preference medium.
type ErrStorageAccess struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *ErrStorageAccess) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *ErrStorageAccess) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrStorageAccess) Is(target error) bool {
	_, ok := target.(*ErrStorageAccess)
	return ok
}
