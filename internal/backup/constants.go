package backup

// FileName is the attachment name used for backups
const FileName = "characters.json"

// Log messages
const (
	LogMsgExported = "Characters exported"
)
