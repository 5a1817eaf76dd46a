// internal/market/errors.go
package market

import "errors"

// Error taxonomy for core operations. Handlers map these onto HTTP codes,
// services wrap them with context via fmt.Errorf("...: %w", err).
var (
	ErrNotFound         = errors.New("listing not found")
	ErrUnauthorized     = errors.New("not the owner of the listed item")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrKindMismatch     = errors.New("not the same item kind listed on the marketplace")
	ErrExternalTransfer = errors.New("external ledger rejected transfer")
	ErrConfiguration    = errors.New("invalid marketplace configuration")
)
