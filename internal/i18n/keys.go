// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Listings
	KeyListingCreated         = "listing.created"
	KeyListingUpdated         = "listing.updated"
	KeyListingRemoved         = "listing.removed"
	KeyListingNotFound        = "listing.not_found"
	KeyListingNotOwner        = "listing.not_owner"
	KeyListingKindMismatch    = "listing.kind_mismatch"
	KeyListingInvalidQuantity = "listing.invalid_quantity"
	KeyListingZeroPrice       = "listing.zero_price_warning"

	// Trades
	KeyTradeSettled         = "trade.settled"
	KeyTradeFailed          = "trade.failed"
	KeyTradeNotFound        = "trade.not_found"
	KeyTradeInvalidAmount   = "trade.invalid_amount"
	KeyTradeTransferDenied  = "trade.transfer_denied"
	KeyTradeNotEnoughListed = "trade.not_enough_listed"

	// Wallet
	KeyWalletApproved          = "wallet.approved"
	KeyWalletInsufficientFunds = "wallet.insufficient_funds"
	KeyWalletMinted            = "wallet.minted"

	// Collections
	KeyCollectionCreated  = "collection.created"
	KeyCollectionUpdated  = "collection.updated"
	KeyCollectionNotFound = "collection.not_found"
	KeyCollectionMinted   = "collection.minted"
	KeyCollectionRoyalty  = "collection.royalty_over_cap"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminUserSuspended   = "admin.user_suspended"
	KeyAdminUserUnsuspended = "admin.user_unsuspended"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
