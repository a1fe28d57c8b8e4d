// Package errors defines the structured error taxonomy shared by every
// package in vt. Operations return one of these types (or wrap one) for the
// failure kinds listed below, so that the CLI can print a consistent,
// hint-carrying message; other failures are plain wrapped errors.
package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error for programmatic handling (errors.As / type
// switches) separately from its human-readable message.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindAlreadyExists    Kind = "already_exists"
	KindDirtyWorkingTree Kind = "dirty_working_tree"
	KindDirectoryNotEmpty Kind = "directory_not_empty"
	KindLockHeld         Kind = "lock_held"
	KindTransport        Kind = "transport"
	KindConfigInvalid    Kind = "config_invalid"
	KindAuth             Kind = "auth"
)

// Error is the structured error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Status  int // HTTP status, set only for KindTransport
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserFriendlyMessage renders the message plus the hint, if any, for
// terminal output.
func (e *Error) UserFriendlyMessage() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + "\n\nSuggestion: " + e.Hint
}

func new(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func withHint(e *Error, hint string) *Error {
	e.Hint = hint
	return e
}

// NotFound reports a missing val, branch, item, or directory.
func NotFound(kind, id string) *Error {
	return new(KindNotFound, fmt.Sprintf("%s '%s' not found", kind, id))
}

// AlreadyExists reports a name collision on create or branch -b.
func AlreadyExists(kind, id string) *Error {
	return withHint(
		new(KindAlreadyExists, fmt.Sprintf("%s '%s' already exists", kind, id)),
		"choose a different name, or omit -b to switch to the existing branch",
	)
}

// DirtyWorkingTree reports a refused destructive operation.
func DirtyWorkingTree(op string) *Error {
	return withHint(
		new(KindDirtyWorkingTree, fmt.Sprintf("working tree has local changes, refusing to %s", op)),
		"commit or discard your changes, or pass --force",
	)
}

// DirectoryNotEmpty reports a non-empty target for create/clone.
func DirectoryNotEmpty(path string) *Error {
	return withHint(
		new(KindDirectoryNotEmpty, fmt.Sprintf("directory '%s' is not empty", path)),
		"choose an empty directory, or pass the upload-existing-files option",
	)
}

// LockHeld reports a live watcher already running in this tree.
func LockHeld(path string, pid int) *Error {
	return new(KindLockHeld, fmt.Sprintf("lock held by process %d in %s", pid, path))
}

// Transport wraps a remote-call failure that carries an HTTP status.
func Transport(status int, message string, err error) *Error {
	e := wrap(KindTransport, message, err)
	e.Status = status
	return e
}

// ConfigInvalid reports a schema violation in state.json or config.yaml.
func ConfigInvalid(path, reason string) *Error {
	return new(KindConfigInvalid, fmt.Sprintf("%s is invalid: %s", path, reason))
}

// Auth reports a missing or rejected credential.
func Auth(message string) *Error {
	return withHint(
		new(KindAuth, message),
		"set VAL_TOWN_API_KEY, or add apiKey to your vt config",
	)
}

// Is reports whether err (or anything it wraps) is a vt *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
