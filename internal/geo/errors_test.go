package geo

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestError_DistinctMessages(t *testing.T) {
	kinds := []Kind{KindPermissionDenied, KindPositionUnavailable, KindTimeout, KindUnsupported}

	seen := make(map[string]Kind, len(kinds))
	for _, k := range kinds {
		msg := (&Error{Kind: k}).Message()
		if msg == "" {
			t.Fatalf("kind %q has no message", k)
		}
		if prev, dup := seen[msg]; dup {
			t.Fatalf("kinds %q and %q share a message", prev, k)
		}
		seen[msg] = k
	}
}

func TestClassify_DeadlineBecomesTimeout(t *testing.T) {
	err := fmt.Errorf("fix: %w", context.DeadlineExceeded)

	gerr := Classify(err)
	if gerr.Kind != KindTimeout {
		t.Fatalf("unexpected kind: %q", gerr.Kind)
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := &Error{Kind: KindPermissionDenied}
	wrapped := fmt.Errorf("acquire: %w", orig)

	if got := Classify(wrapped); got.Kind != KindPermissionDenied {
		t.Fatalf("unexpected kind: %q", got.Kind)
	}
}

func TestClassify_UnknownIsUnavailable(t *testing.T) {
	gerr := Classify(errors.New("boom"))
	if gerr.Kind != KindPositionUnavailable {
		t.Fatalf("unexpected kind: %q", gerr.Kind)
	}
	if !errors.Is(gerr, gerr.Err) {
		t.Fatalf("expected wrapped cause to be unwrappable")
	}
}
