// Package dto defines the JSON envelope shared by every endpoint.
package dto

// Response is the standard API envelope. Store is set on endpoints
// scoped to one storefront; Message carries human-readable context for
// mutations and errors.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Store   string `json:"store,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a success envelope.
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewStoreResponse creates a success envelope scoped to a storefront.
func NewStoreResponse(data any, store string) Response {
	return Response{Success: true, Data: data, Store: store}
}

// NewMessageResponse creates a success envelope with a message.
func NewMessageResponse(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// NewErrorResponse creates an error envelope.
func NewErrorResponse(err, message string) Response {
	return Response{Success: false, Error: err, Message: message}
}
