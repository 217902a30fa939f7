package errors

// Process exit codes, one per fatal error type
const (
	ExitOK            = 0
	ExitUnknown       = 1
	ExitMissingFile   = 2
	ExitMalformedData = 3
	ExitModelFit      = 4
	ExitConfig        = 5
	ExitEmptyResult   = 6
	ExitOutput        = 7
)

// ExitCode maps an error to the exit status of the analyzer.
// A nil error maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch TypeOf(err) {
	case ErrTypeMissingFile:
		return ExitMissingFile
	case ErrTypeMalformedData:
		return ExitMalformedData
	case ErrTypeModelFit:
		return ExitModelFit
	case ErrTypeConfig:
		return ExitConfig
	case ErrTypeEmptyResult:
		return ExitEmptyResult
	case ErrTypeOutput:
		return ExitOutput
	default:
		return ExitUnknown
	}
}

// Fatal reports whether an error of this type must abort the whole run.
// Empty results only fail the query that produced them.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsType(err, ErrTypeEmptyResult)
}
