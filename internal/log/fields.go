package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldParticipant = "participant"
	FieldDelta       = "delta"
	FieldBalance     = "balance"
	FieldSender      = "sender"
	FieldChatID      = "chat_id"
	FieldCommand     = "command"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentTelegram = "telegram"
	ComponentStorage  = "storage"
	ComponentFeed     = "feed"
	ComponentDispatch = "dispatch"
)
