package logging

import (
	"context"
	"testing"
)

func TestWithUserID(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-123")

	if got := GetUserID(ctx); got != "user-123" {
		t.Errorf("GetUserID() = %q, want %q", got, "user-123")
	}
}

func TestWithToastID(t *testing.T) {
	ctx := WithToastID(context.Background(), "42")

	if got := GetToastID(ctx); got != "42" {
		t.Errorf("GetToastID() = %q, want %q", got, "42")
	}
}

func TestContextIDs_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetUserID(ctx); got != "" {
		t.Errorf("GetUserID() = %q, want empty string", got)
	}
	if got := GetToastID(ctx); got != "" {
		t.Errorf("GetToastID() = %q, want empty string", got)
	}
}
