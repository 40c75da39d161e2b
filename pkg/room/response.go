package room

import (
	"errors"
	"piratepoker-server/pkg/engine"
)

var errNoDealer = errors.New("not connected to a table")

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action string `json:"action"`

	// Amount is the raise for "bet"
	Amount int `json:"amount"`

	// Ready is the flag for "ready"
	Ready bool `json:"ready"`

	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a message sent to the JS client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx string) *Response {
	return &Response{
		Key:     "status",
		Value:   "OK",
		Context: ctx,
	}
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Data:    engine.KindOf(err).String(),
		Context: ctx,
	}
}

func newTableStateResponse(view *engine.TableView) *Response {
	return &Response{
		Key:  "tableState",
		Data: view,
	}
}

func newTableClosedResponse(tableID string) *Response {
	return &Response{
		Key:   "tableClosed",
		Value: tableID,
	}
}
