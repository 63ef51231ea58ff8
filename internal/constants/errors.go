package constants

// Catalog API error codes
// These constants define specific error scenarios for the external catalog provider

const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeUpstreamError     = "UPSTREAM_ERROR"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeNotFound          = "RESOURCE_NOT_FOUND"
)

// CatalogErrorMessages holds human-readable messages corresponding to error codes
var CatalogErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:     "The catalog API key is missing, invalid, or has been revoked",
	ErrCodeRateLimited:       "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:      "Unable to reach the catalog API",
	ErrCodeUpstreamError:     "The catalog API reported an error",
	ErrCodeInvalidDataFormat: "The catalog API returned a payload that could not be decoded",
	ErrCodeNotFound:          "The requested catalog resource was not found",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := CatalogErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
