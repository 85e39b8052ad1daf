package prompt

// Default button labels
const (
	DefaultAcceptLabel  = "Yes"
	DefaultDeclineLabel = "No"
)

// Log messages
const (
	LogMsgPromptFailed = "Prompt failed, treating as no answer"
)
