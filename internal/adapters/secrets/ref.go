// Package secrets holds the password-reference helpers shared by the secret
// store backends.
package secrets

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// EntryPath converts a password reference such as "anyrouter://main/password"
// into a slash separated entry path ("anyrouter/main/password"). Plain paths
// are returned cleaned.
func EntryPath(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", errors.New("secret reference is empty")
	}

	if scheme, rest, ok := strings.Cut(trimmed, "://"); ok {
		if scheme == "" || strings.ContainsAny(scheme, "/\\") {
			return "", fmt.Errorf("invalid secret reference %q", ref)
		}
		trimmed = scheme + "/" + rest
	}

	cleaned := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid secret reference %q", ref)
	}

	return cleaned, nil
}
