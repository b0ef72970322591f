package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUserNotFound indicates that no user matches the given ID or login identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrHistoryEntryNotFound indicates that no PEA history row exists for a user and date.
	ErrHistoryEntryNotFound = errors.New("history entry not found")
)

// Access errors represent requests that are well formed but not allowed.
var (
	// ErrForbidden indicates that the resource exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this resource")

	// ErrInvalidCredentials indicates that a login identifier/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates that registration used an existing username or email.
	ErrUsernameTaken = errors.New("username already taken")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidPeriod indicates a period token that is not <integer><d|w|m|y>.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., a month entirely in the future).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidDate indicates a date parameter that is not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidTransactionID indicates a transaction path parameter that is not a positive integer.
	ErrInvalidTransactionID = errors.New("invalid transaction ID")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToRetrieveTickers      = errors.New("failed to retrieve tickers")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToComputeValue         = errors.New("failed to compute portfolio value")
	ErrFailedToComputeHistory       = errors.New("failed to compute portfolio history")
	ErrFailedToRunSnapshot          = errors.New("failed to run history snapshot")
	ErrFailedToRefreshTickers       = errors.New("failed to refresh tickers")
	ErrFailedToRegister             = errors.New("failed to register user")
	ErrFailedToLogin                = errors.New("failed to log in")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)
