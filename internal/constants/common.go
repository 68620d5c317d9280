package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"
	TestEnvironment  = "test"

	// Service name reported in structured logs
	ServiceName = "cyphera-metrics"

	// Currencies
	USDCurrency = "USD"

	// Locales
	DefaultLocale = "en-US"
)

// IsValidStage checks if the provided stage string is one of the defined valid stages.
func IsValidStage(stage string) bool {
	switch stage {
	case ProdEnvironment, DevEnvironment, LocalEnvironment, TestEnvironment:
		return true
	default:
		return false
	}
}
