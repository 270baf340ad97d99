// Package codec provides the JSON wire codec used by the backup gRPC service.
//
// Clients select it with the "application/grpc+json" content type, or with
// grpc.CallContentSubtype(codec.Name) when using grpc-go.
package codec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is the content subtype of the codec.
const Name = "json"

func init() {
	encoding.RegisterCodec(JSON{})
}

// JSON marshals gRPC messages with encoding/json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSON) Name() string {
	return Name
}
