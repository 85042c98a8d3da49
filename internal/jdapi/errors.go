package jdapi

import "fmt"

// FetchError is the only failure FetchPage reports. Status, transport and
// decode failures are not told apart; Err keeps the cause for logs.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
