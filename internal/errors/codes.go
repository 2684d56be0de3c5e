package errors

// Error codes sent to the storefront in the "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps codes to localized text.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed body or query
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // bad path id
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartProductNotFound = "CART_PRODUCT_NOT_FOUND" // product to add does not exist
	CartInvalidVariant  = "CART_INVALID_VARIANT"   // color or image not offered by the product
	CartOutOfStock      = "CART_OUT_OF_STOCK"      // no units available
	CartEmpty           = "CART_EMPTY"             // checkout with nothing in the cart

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutRejected    = "CHECKOUT_REJECTED"    // order service refused the order
	CheckoutUnavailable = "CHECKOUT_UNAVAILABLE" // order service unreachable

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
