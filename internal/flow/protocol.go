package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// ErrInvalidRequest is returned when the launcher payload cannot be decoded.
var ErrInvalidRequest = errors.New("invalid launcher request")

// Request is a decoded JSON-RPC call from the launcher.
type Request struct {
	Method     string
	Parameters []gjson.Result
}

// Param returns parameter i, or an empty result when it is absent.
func (r Request) Param(i int) gjson.Result {
	if i < 0 || i >= len(r.Parameters) {
		return gjson.Result{}
	}
	return r.Parameters[i]
}

// Decode parses a launcher request such as
// {"method":"query","parameters":["task buy milk"]}.
// Parameters keep their JSON types; a missing parameters field is an empty list.
func Decode(raw []byte) (Request, error) {
	if !gjson.ValidBytes(raw) {
		return Request{}, fmt.Errorf("%w: not valid JSON", ErrInvalidRequest)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Request{}, fmt.Errorf("%w: expected an object", ErrInvalidRequest)
	}

	method := root.Get("method")
	if method.Type != gjson.String || method.String() == "" {
		return Request{}, fmt.Errorf("%w: missing method", ErrInvalidRequest)
	}

	req := Request{Method: method.String()}
	params := root.Get("parameters")
	switch {
	case !params.Exists() || params.Type == gjson.Null:
	case params.IsArray():
		req.Parameters = params.Array()
	default:
		return Request{}, fmt.Errorf("%w: parameters must be an array", ErrInvalidRequest)
	}
	return req, nil
}

type wireAction struct {
	Method     string `json:"method"`
	Parameters []any  `json:"parameters"`
}

type wireItem struct {
	Title         string      `json:"Title"`
	SubTitle      string      `json:"SubTitle"`
	IcoPath       string      `json:"IcoPath"`
	JsonRPCAction *wireAction `json:"JsonRPCAction,omitempty"`
}

type wireResponse struct {
	Result []wireItem `json:"result"`
}

// Encode renders items in the launcher's response format. A nil slice is
// written as an empty result list.
func Encode(items []Item) ([]byte, error) {
	resp := wireResponse{Result: make([]wireItem, 0, len(items))}
	for _, it := range items {
		w := wireItem{Title: it.Title, SubTitle: it.Subtitle, IcoPath: it.Icon}
		if it.Callback != nil {
			params := it.Callback.Args
			if params == nil {
				params = []any{}
			}
			w.JsonRPCAction = &wireAction{Method: string(it.Callback.Name), Parameters: params}
		}
		resp.Result = append(resp.Result, w)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode launcher response: %w", err)
	}
	return data, nil
}

// Write encodes items and writes them followed by a newline.
func Write(w io.Writer, items []Item) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
