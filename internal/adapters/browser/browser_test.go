package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArgUsesJSONTags(t *testing.T) {
	t.Parallel()

	type request struct {
		URL     string            `json:"url"`
		Headers map[string]string `json:"headers,omitempty"`
	}

	got, err := NormalizeArg(request{URL: "https://example.test/api"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"url": "https://example.test/api"}, got)

	got, err = NormalizeArg("user")
	require.NoError(t, err)
	assert.Equal(t, "user", got)

	got, err = NormalizeArg(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizeArgRejectsUnencodable(t *testing.T) {
	t.Parallel()

	_, err := NormalizeArg(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode script argument")
}

func TestEncodeResultNil(t *testing.T) {
	t.Parallel()

	raw, err := EncodeResult(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestDecodeStorageItem(t *testing.T) {
	t.Parallel()

	value, ok, err := DecodeStorageItem([]byte(`"{\"id\":7}"`))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":7}`, value)

	_, ok, err = DecodeStorageItem([]byte("null"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = DecodeStorageItem([]byte("12"))
	require.Error(t, err)
}

func TestDecodeTexts(t *testing.T) {
	t.Parallel()

	texts, err := DecodeTexts([]byte(`["邮箱登录","Sign in"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"邮箱登录", "Sign in"}, texts)
}

func TestNormalizeEngine(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{"": EnginePlaywright, " Rod ": EngineRod, "playwright": EnginePlaywright} {
		got, err := NormalizeEngine(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := NormalizeEngine("webkit")
	require.Error(t, err)
}

func TestOptionsResolvedLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultLocale, Options{}.ResolvedLocale())
	assert.Equal(t, "en-US", Options{Locale: "en-US"}.ResolvedLocale())
}
