package main

import "fmt"

// FetchError categorizes a failed read from an external collaborator.
// Collaborator is "orders", "rates", "store", or "report".
type FetchError struct {
	Collaborator string
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching from %s: %v", e.Collaborator, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError categorizes a failed append to the summary store.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting to store: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// NotifyError categorizes a failed webhook post. When persistence already
// succeeded, the re-triggered run recovers through the idempotent re-send
// path.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("posting notification: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }
