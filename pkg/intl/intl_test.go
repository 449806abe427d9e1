package intl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetSupportedLanguages(t *testing.T) {
	require.Len(t, GetSupportedLanguages(nil), 2)

	got := GetSupportedLanguages([]string{"zh", "fr"})
	require.Len(t, got, 1)
	require.Equal(t, "zh", got[0].Code)
}

func TestT_FallbackWithoutLocalizer(t *testing.T) {
	require.Equal(t, "fallback", T(context.Background(), "Missing", "fallback", nil))
}

func TestT_UsesLocalizer(t *testing.T) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	_, err := bundle.ParseMessageFileBytes([]byte(`{"Greeting": "Hello {{.Name}}"}`), "en.json")
	require.NoError(t, err)

	ctx := WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))
	require.Equal(t, "Hello Jane", T(ctx, "Greeting", "x", map[string]any{"Name": "Jane"}))
	require.Equal(t, "x", T(ctx, "Missing", "x", nil))
}
