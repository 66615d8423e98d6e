package ports

import "context"

// SecretStore holds account passwords by reference (anyrouter://<account>/password).
// Get wraps domain.ErrSecretNotFound when ref has no entry; Delete of a missing
// entry is not an error.
type SecretStore interface {
	Get(ctx context.Context, ref string) (string, error)
	Put(ctx context.Context, ref string, value string) error
	Delete(ctx context.Context, ref string) error
}
