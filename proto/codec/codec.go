// Package codec registers the gRPC codecs used by the account and chat services.
//
// Messages are plain Go structs with json tags. They travel as JSON by default
// ("application/grpc+json"); clients may switch to CBOR with
// grpc.CallContentSubtype(CBORName).
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	JSONName = "json"
	CBORName = "cbor"
)

func init() {
	encoding.RegisterCodec(JSON{})
	encoding.RegisterCodec(CBOR{})
}

type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json marshal %T: %w", v, err)
	}
	return b, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json unmarshal %T: %w", v, err)
	}
	return nil
}

func (JSON) Name() string { return JSONName }

type CBOR struct{}

func (CBOR) Marshal(v any) ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor marshal %T: %w", v, err)
	}
	return b, nil
}

func (CBOR) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cbor unmarshal %T: %w", v, err)
	}
	return nil
}

func (CBOR) Name() string { return CBORName }

// WithDefault prepends the JSON content subtype, so caller options still win.
func WithDefault(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(JSONName)}, opts...)
}
