package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// OrderValidationError represents a rejected order submission.
	OrderValidationError ErrorCode = "order_validation_error"
	// OrderNotFoundError represents an update targeting an order id the
	// store does not hold. The engine only updates ids it created, so this
	// indicates an invariant violation rather than caller input.
	OrderNotFoundError ErrorCode = "order_not_found_error"
	// MatchingAbortedError represents a matching pass aborted by a store
	// failure before all of its updates were committed.
	MatchingAbortedError ErrorCode = "matching_aborted_error"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryDatabase indicates an error related to database operations.
	CategoryDatabase Category = "database"
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryBusinessLogic indicates an error related to business logic processing.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)
