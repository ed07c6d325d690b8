// Package response holds the envelope every resource of the remote service
// wraps its payload in.
package response

// MessageType is the severity of a Message.
type MessageType string

const (
	MessageTypeInfo  MessageType = "INFO"
	MessageTypeWarn  MessageType = "WARN"
	MessageTypeError MessageType = "ERROR"
)

// Message is a status message attached to a response.
type Message struct {
	MessageType MessageType `json:"messageType"`
	Message     string      `json:"message,omitempty"`
	MessageKey  string      `json:"messageKey,omitempty"`
	MessageArgs []string    `json:"messageArgs,omitempty"`
}

// Result is the status part of every response. On its own it is the result
// of operations that return no entity, such as a delete.
type Result struct {
	Errors      bool      `json:"errors"`
	MessageList []Message `json:"messageList,omitempty"`
}

// HasErrors reports whether the server flagged the operation as failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Errors
}

// Messages returns the messages of the given type.
func (r *Result) Messages(t MessageType) []Message {
	if r == nil {
		return nil
	}
	var out []Message
	for _, m := range r.MessageList {
		if m.MessageType == t {
			out = append(out, m)
		}
	}
	return out
}

// Info builds a Result carrying a single informational message.
func Info(msg string, args ...string) Result {
	return Result{MessageList: []Message{{MessageType: MessageTypeInfo, Message: msg, MessageArgs: args}}}
}

// Error builds a failed Result carrying a single error message.
func Error(msg string, args ...string) Result {
	return Result{Errors: true, MessageList: []Message{{MessageType: MessageTypeError, Message: msg, MessageArgs: args}}}
}
