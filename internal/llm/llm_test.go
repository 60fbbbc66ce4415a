package llm

import (
	"context"
	"errors"
	"testing"
)

type stubSettings struct {
	values map[string]string
	err    error
}

func (s *stubSettings) Setting(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func TestResolveProviderSelection(t *testing.T) {
	ctx := context.Background()

	provider, err := ResolveProvider(ctx, &stubSettings{})
	if err != nil {
		t.Fatalf("resolve without credential: %v", err)
	}
	if provider.Name() != "offline" {
		t.Fatalf("provider = %q, want offline", provider.Name())
	}

	provider, err = ResolveProvider(ctx, &stubSettings{values: map[string]string{CredentialSettingKey: "abcd1234"}})
	if err != nil {
		t.Fatalf("resolve with credential: %v", err)
	}
	if provider.Name() != "gemini" {
		t.Fatalf("provider = %q, want gemini", provider.Name())
	}

	// A blank credential counts as absent.
	provider, err = ResolveProvider(ctx, &stubSettings{values: map[string]string{CredentialSettingKey: "   "}})
	if err != nil {
		t.Fatalf("resolve with blank credential: %v", err)
	}
	if provider.Name() != "offline" {
		t.Fatalf("provider = %q, want offline", provider.Name())
	}
}

func TestResolveProviderSettingsError(t *testing.T) {
	if _, err := ResolveProvider(context.Background(), &stubSettings{err: errors.New("db closed")}); err == nil {
		t.Fatal("expected settings error to propagate")
	}
}
