package constants

import "time"

// Remote spreadsheet endpoint budgets. Reads reject locally once the
// budget passes; a late reply is ignored, not acted on. Writes share
// the load budget.
const (
	RemoteLoadTimeout   = 15 * time.Second
	RemoteSearchTimeout = 10 * time.Second
	RemoteWriteTimeout  = 15 * time.Second
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// PasswordDigits is how many trailing phone digits of the head teacher
// gate a registration update.
const PasswordDigits = 4
