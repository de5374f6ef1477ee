package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the content subtype of the marketplace wire format; calls go
// out as application/grpc+marketplace-json. Messages are the plain structs in
// messages.go with decimal amounts carried as strings.
const codecName = "marketplace-json"

func init() {
	encoding.RegisterCodec(marketplaceCodec{})
}

type marketplaceCodec struct{}

func (marketplaceCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encode %T: %w", codecName, v, err)
	}
	return data, nil
}

// Unmarshal treats an empty frame as the zero message.
func (marketplaceCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: decode %T: %w", codecName, v, err)
	}
	return nil
}

func (marketplaceCodec) Name() string {
	return codecName
}
