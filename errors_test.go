package srcscan

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func ExampleError() {
	fmt.Println(&Error{
		Inner:   nil,
		Kind:    ErrScanner,
		Message: "test",
		Op:      "ExampleError",
	})

	fmt.Println(&Error{
		Inner:   sql.ErrNoRows,
		Kind:    ErrStorage,
		Message: "needed object missing",
		Op:      "Lookup",
	})
	err := &Error{
		Inner: &Error{
			Inner:   sql.ErrNoRows,
			Kind:    ErrStorage,
			Message: "needed object missing",
			Op:      "Lookup",
		},
		Kind: ErrDownload,
	}
	fmt.Println(err)
	fmt.Println(fmt.Errorf("somepackage: oops: %w", &Error{
		Inner:   sql.ErrNoRows,
		Kind:    ErrStorage,
		Message: "needed object missing",
		Op:      "Lookup",
	}))

	// Output:
	// ExampleError [scanner]: test
	// Lookup [storage]: needed object missing: sql: no rows in result set
	// Lookup [storage]: needed object missing: sql: no rows in result set
	// somepackage: oops: Lookup [storage]: needed object missing: sql: no rows in result set
}

func TestErrorIsKind(t *testing.T) {
	inner := &Error{Kind: ErrDownload, Message: "archive fetch failed"}
	wrapped := fmt.Errorf("download: %w", inner)

	if !errors.Is(wrapped, ErrDownload) {
		t.Errorf("expected errors.Is to match ErrDownload through the wrap")
	}
	if errors.Is(wrapped, ErrScanner) {
		t.Errorf("did not expect errors.Is to match an unrelated kind")
	}

	var asErr *Error
	if !errors.As(wrapped, &asErr) {
		t.Fatalf("expected errors.As to find the *Error")
	}
	if asErr.Kind != ErrDownload {
		t.Errorf("got kind %v, want %v", asErr.Kind, ErrDownload)
	}
}
