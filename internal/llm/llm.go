package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/llm/providers"
)

// CredentialSettingKey is the settings key holding the live-provider
// credential.
const CredentialSettingKey = "gemini_api_key"

type Message = providers.Message

type Provider = providers.Provider

// SettingsReader is the slice of the settings store provider selection
// depends on.
type SettingsReader interface {
	Setting(ctx context.Context, key string) (string, error)
}

// ResolveProvider picks the provider for one chat turn: a non-empty
// stored credential selects the live Gemini backend, otherwise the
// offline summarizer. Selection is re-evaluated on every request; there
// is no cached instance and no fallback between the two.
func ResolveProvider(ctx context.Context, settings SettingsReader) (Provider, error) {
	logger := common.Logger()
	credential, err := settings.Setting(ctx, CredentialSettingKey)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if trimmed := strings.TrimSpace(credential); trimmed != "" {
		logger.Debug("llm: live gemini provider selected")
		return providers.NewGeminiProvider(trimmed), nil
	}
	logger.Debug("llm: no credential configured, offline summarizer selected")
	return providers.NewOfflineProvider(), nil
}
