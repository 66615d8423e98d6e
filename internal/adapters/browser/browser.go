// Package browser holds the pieces shared by the browser engine adapters.
package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultLocale = "zh-CN"

	EnginePlaywright = "playwright"
	EngineRod        = "rod"
)

// Options configures a browser engine.
type Options struct {
	Headless bool
	// Locale is applied to every new session. Empty means DefaultLocale.
	Locale    string
	UserAgent string
}

func (o Options) ResolvedLocale() string {
	if locale := strings.TrimSpace(o.Locale); locale != "" {
		return locale
	}

	return DefaultLocale
}

// NormalizeEngine maps a configured engine name to a known engine.
func NormalizeEngine(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", EnginePlaywright:
		return EnginePlaywright, nil
	case EngineRod:
		return EngineRod, nil
	default:
		return "", fmt.Errorf("unknown browser engine %q", raw)
	}
}

// TextsScript returns the trimmed visible text of each element matching the
// selector passed as its argument.
const TextsScript = `(selector) => Array.from(document.querySelectorAll(selector)).map((el) => (el.innerText || el.textContent || "").trim())`

// LocalStorageScript reads one localStorage key. It yields null when unset.
const LocalStorageScript = `(key) => { try { return window.localStorage.getItem(key); } catch (e) { return null; } }`

// NormalizeArg round-trips arg through JSON so that structs reach the page as
// plain objects using their json tags.
func NormalizeArg(arg any) (any, error) {
	if arg == nil {
		return nil, nil
	}
	switch arg.(type) {
	case string, bool, int, int64, float64:
		return arg, nil
	}

	raw, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("encode script argument: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode script argument: %w", err)
	}

	return out, nil
}

// EncodeResult serializes a script result. A nil result becomes "null".
func EncodeResult(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode script result: %w", err)
	}

	return raw, nil
}

// DecodeStorageItem interprets the JSON result of LocalStorageScript.
func DecodeStorageItem(raw []byte) (string, bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("decode storage item: %w", err)
	}

	return value, true, nil
}

// DecodeTexts interprets the JSON result of TextsScript.
func DecodeTexts(raw []byte) ([]string, error) {
	var texts []string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("decode element texts: %w", err)
	}

	return texts, nil
}
