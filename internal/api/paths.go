package api

// GJSON paths for extracting values from server responses.
const (
	PathModels    = "models"
	PathModelName = "name"
	PathChoices   = "choices"
	PathReply     = "choices.0.message.content"
)
