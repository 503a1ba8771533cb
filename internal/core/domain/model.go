package domain

// ShutdownReply is the reserved reply that asks the polling loop to stop the bot.
const ShutdownReply = "__SHUTDOWN__"

// CommandPrefix starts every command keyword.
const CommandPrefix = "/"

// Update is a single inbound event fetched from the chat platform.
type Update struct {
	ID int64
	// Message is nil when the update carries no text (photos, stickers, joins).
	Message *Message
}

type Message struct {
	ID       int
	ChatID   int64
	UserID   int64
	Username string
	Text     string
	TraceID  string
}

type Author string

const (
	User   Author = "user"
	System Author = "system"
)

type Prompt struct {
	Prompt string
	Author Author
}

type ModelResponse struct {
	Response string
	Metadata ResponseMetadata
}

type ResponseMetadata struct {
	Model            string
	CompletionTokens int
	TotalTokens      int
}

// Conversion is the outcome reported by the rate provider for a single conversion request.
type Conversion struct {
	Success   bool
	Result    *float64
	ErrorInfo string
}

type HostStats struct {
	Hostname        string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	Uptime          uint64
	CPUModel        string
	LogicalCPUs     int
	Load1           float64
	MemTotal        uint64
	MemUsed         uint64
	MemUsedPercent  float64
}

type AccessKind int

const (
	Unrestricted AccessKind = iota
	AdminOnly
	AllowList
)

// AccessRule restricts who may run a command. Users is only consulted for AllowList.
type AccessRule struct {
	Kind  AccessKind
	Users []int64
}
