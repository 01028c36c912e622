// Package api defines the wire messages of the telecomsupply.v1 services.
//
// Messages are plain Go structs carried as JSON. JSONCodec replaces
// Connect's default protobuf-JSON codec so the services can be called by
// any Connect client that speaks application/json.
package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is a connect.Codec using encoding/json.
type JSONCodec struct{}

// Name is the Connect codec name; it becomes the "application/json"
// content type.
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid JSON message: %w", err)
	}
	return nil
}
