package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"interview-ingest-go/internal/apperr"
)

func TestIsKindSeesThroughWrapping(t *testing.T) {
	cause := errors.New("dns failure")
	err := fmt.Errorf("row ana__x: %w", apperr.Download(cause, "fetch %s", "https://example.com"))

	if !apperr.IsKind(err, apperr.KindDownload) {
		t.Fatalf("expected download kind in %v", err)
	}
	if apperr.IsKind(err, apperr.KindTranscription) {
		t.Fatal("wrong kind must not match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}
}

func TestErrorMessageCarriesKindAndCause(t *testing.T) {
	err := apperr.NotFound(nil, "transcript %s", "ana.json")
	want := "not_found: transcript ana.json"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}
