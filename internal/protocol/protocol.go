// Package protocol implements the JSON-RPC 2.0 tool surface of the
// deepthink server: server handshake, tool advertisement, and the two-action
// (start, iterate) deep_thinking tool that fronts the refinement engine.
//
// The package is transport-agnostic: it maps one request Message to one
// response Message. internal/server moves those messages over stdio.
package protocol

import "encoding/json"

// ProtocolVersion is the advertised protocol revision.
const ProtocolVersion = "2024-11-05"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Message is a JSON-RPC 2.0 request or response.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// NewResponse creates a success response for the given request ID.
func NewResponse(id any, result any) *Message {
	return &Message{JSONRPC: "2.0", ID: id, Result: result}
}

// NewError creates an error response for the given request ID.
func NewError(id any, code int, message string) *Message {
	return &Message{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

// ServerInfo describes this server in the initialize handshake.
type ServerInfo struct {
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
}

// Capabilities advertises what the server supports. Only tools are served.
type Capabilities struct {
	Tools bool `json:"tools"`
}

// ToolDefinition advertises one callable tool and its argument schema.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}
