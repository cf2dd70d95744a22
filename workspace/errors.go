package workspace

import "errors"

var (
	// ErrFolderNotFound is returned by FolderByName for unknown folders.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrTokenRequired is returned when no OAuth token is stored yet; run the
	// authorization flow (AuthURL + Exchange) first.
	ErrTokenRequired = errors.New("google workspace: oauth token required")
)
