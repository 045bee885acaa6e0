// Package schema holds the CodeCTRL wire messages and the LogClient gRPC
// service definition used between loggers and the collector.
package schema

// RequestStatus is the collector's verdict for a SendLog or SendLogs call.
type RequestStatus int32

const (
	RequestStatusConfirmed RequestStatus = 0
	RequestStatusError     RequestStatus = 1
)

func (s RequestStatus) String() string {
	switch s {
	case RequestStatusConfirmed:
		return "CONFIRMED"
	case RequestStatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// BacktraceData is one frame of a Log's stack.
type BacktraceData struct {
	Name         string `json:"name"`
	FilePath     string `json:"file_path"`
	LineNumber   uint32 `json:"line_number"`
	ColumnNumber uint32 `json:"column_number"`
	Code         string `json:"code"`
}

// Log is the message a logger sends for every captured call site.
type Log struct {
	UUID        string            `json:"uuid"`
	Stack       []*BacktraceData  `json:"stack"`
	LineNumber  uint32            `json:"line_number"`
	CodeSnippet map[uint32]string `json:"code_snippet"`
	Message     string            `json:"message"`
	MessageType string            `json:"message_type"`
	FileName    string            `json:"file_name"`
	Address     string            `json:"address"`
	Language    string            `json:"language"`
	Warnings    []string          `json:"warnings"`
}

// RequestResult is the collector's response to SendLog and SendLogs.
// AuthStatus carries the encoded GenerateTokenRequestResult untouched; the
// token model is not interpreted by this module.
type RequestResult struct {
	Message    string        `json:"message"`
	Status     RequestStatus `json:"status"`
	AuthStatus []byte        `json:"auth_status,omitempty"`
}

// ServerDetails describes a running collector.
type ServerDetails struct {
	Host                   string `json:"host"`
	Port                   uint32 `json:"port"`
	Uptime                 uint64 `json:"uptime"`
	RequiresAuthentication bool   `json:"requires_authentication"`
}
