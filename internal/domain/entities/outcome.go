package entities

type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeValidationFailure   Outcome = "validation_failure"
	OutcomeProviderError       Outcome = "provider_error"
	OutcomeUnparseableResponse Outcome = "unparseable_response"
)

// ユーザーに表示するステータスメッセージ
const (
	StatusMissingImages    = "Please upload both images."
	StatusMissingAPIKey    = "Please enter your Gemini API key."
	StatusSuccess          = "Virtual try-on completed successfully!"
	StatusGenerationFailed = "Failed to generate try-on result. Please try again with different images."

	apiResponsePrefix = "API Response: "
	errorPrefix       = "Error: "
)

func APIResponseStatus(text string) string {
	return apiResponsePrefix + text
}

func ErrorStatus(description string) string {
	return errorPrefix + description
}
