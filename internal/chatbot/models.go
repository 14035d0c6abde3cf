package chatbot

import "time"

type Status string

const (
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusError }

// TextInferenceConfig carries per-request sampling parameters. MaxTokens is
// advisory only: the worker caps it at MaxTokensCap before calling the
// generation backend.
type TextInferenceConfig struct {
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

// RequestPayload is the full generation request, written once at submission
// and immutable afterwards. The dispatch message never duplicates it; workers
// always re-read it from the record store.
type RequestPayload struct {
	Message             string               `json:"message"`
	KnowledgeBaseID     string               `json:"knowledgeBaseId"`
	TextPromptTemplate  string               `json:"textPromptTemplate,omitempty"`
	ModelArn            string               `json:"modelArn,omitempty"`
	TextInferenceConfig *TextInferenceConfig `json:"textInferenceConfig,omitempty"`
}

// Record is the durable state of one chatbot request.
//
// status moves processing -> success|error exactly once; result is set in the
// same update as the terminal status and is empty while processing.
type Record struct {
	ChatbotRequestID string         `gorm:"column:chatbot_request_id;primaryKey;size:26" json:"chatbot_request_id"` // ULID length
	Status           Status         `gorm:"type:varchar(16);index;not null" json:"status"`
	Payload          RequestPayload `gorm:"serializer:json;type:text" json:"payload"`
	Result           string         `gorm:"type:text" json:"result"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Record) TableName() string { return "chatbot_requests" }

// DispatchMessage is the queue-carried message: the id only.
type DispatchMessage struct {
	ChatbotRequestID string `json:"chatbot_request_id"`
}
