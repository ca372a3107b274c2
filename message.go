package pagekeep

import "encoding/json"

// Message types understood by the bridge.
const (
	MessageScrapePage    = "SCRAPE_PAGE"
	MessageCheckRecord   = "CHECK_RECORD"
	MessageSaveRecord    = "SAVE_RECORD"
	MessageListRecords   = "LIST_RECORDS"
	MessageSearchRecords = "SEARCH_RECORDS"
)

// Request is a message sent into the bridge. ID is echoed in the response
// so callers can match answers to concurrent requests.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers exactly one Request.
type Response struct {
	ID      string          `json:"id,omitempty"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
