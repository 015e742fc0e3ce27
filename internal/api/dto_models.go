package api

// ActionResult is the envelope every endpoint responds with.
type ActionResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ReferenceResponse carries a decrypted payment reference.
type ReferenceResponse struct {
	Reference string `json:"reference"`
}

// StreamEvent is a message pushed over the jobs WebSocket.
type StreamEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func ok(data interface{}) ActionResult {
	return ActionResult{Success: true, Data: data}
}

func okMessage(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}
