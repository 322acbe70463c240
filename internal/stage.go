package internal

// Stage identifies a coarse position in the request pipeline.
// Stages run in declaration order; an entry in a later stage always runs
// after every entry in an earlier stage, regardless of priority.
// The set and order are fixed at compile time and never change at runtime.
type Stage int

const (
	// StageErrors wraps everything else so panics and returned errors
	// from any later stage are caught and rendered.
	StageErrors Stage = iota

	// StageSecurity hosts CORS, timeouts, and request hardening.
	StageSecurity

	// StageLogging hosts request identification and access logging.
	StageLogging

	// StageAssets serves static files and short-circuits before any
	// session or auth work happens.
	StageAssets

	// StagePrivileged guards internal operational endpoints.
	StagePrivileged

	// StageAuth loads sessions and enforces CSRF on unsafe methods.
	StageAuth

	// StageApplication is the innermost stage, closest to the terminal
	// handler. Application-supplied middleware registers here.
	StageApplication
)

var stageNames = map[Stage]string{
	StageErrors:      "error-handling",
	StageSecurity:    "security",
	StageLogging:     "logging",
	StageAssets:      "asset-serving",
	StagePrivileged:  "privileged-api",
	StageAuth:        "auth",
	StageApplication: "application",
}

// String returns the canonical stage name.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	return s >= StageErrors && s <= StageApplication
}

// Stages returns all stages in execution order.
func Stages() []Stage {
	return []Stage{
		StageErrors,
		StageSecurity,
		StageLogging,
		StageAssets,
		StagePrivileged,
		StageAuth,
		StageApplication,
	}
}
