package odoo

import (
	"fmt"

	json "github.com/goccy/go-json"
)

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	Id      string    `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Id      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    rpcErrorData `json:"data"`
}

type rpcErrorData struct {
	Name          string `json:"name"`
	Message       string `json:"message"`
	ExceptionType string `json:"exception_type"`
}

// RemoteError is an error reported by the store, e.g. a failed constraint.
type RemoteError struct {
	Code    int
	Message string
	Name    string
	Detail  string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("odoo error %d (%s): %s", e.Code, e.Name, e.Detail)
	}
	return fmt.Sprintf("odoo error %d: %s", e.Code, e.Message)
}

func (e *rpcError) toRemote() *RemoteError {
	return &RemoteError{
		Code:    e.Code,
		Message: e.Message,
		Name:    e.Data.Name,
		Detail:  e.Data.Message,
	}
}
