package config

const (
	// DefaultDatabasePath is the default path for the library database file.
	DefaultDatabasePath = "./library.db"

	// DefaultLoanPeriodDays is the lending period applied when a loan is
	// opened without an explicit due date.
	DefaultLoanPeriodDays = 14

	// DefaultRetryMaxAttempts bounds how many times a busy transaction is retried.
	DefaultRetryMaxAttempts = 5

	// DefaultRetryBackoff is the delay multiplier between retry attempts.
	DefaultRetryBackoff = 2.0
)
