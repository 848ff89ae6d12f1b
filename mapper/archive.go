package mapper

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Archive encodes model as a binary msgpack archive of its serialized form.
// RawRepresentable properties are stored by their raw value.
func (m *Mapper) Archive(model any) ([]byte, error) {
	doc, err := m.Serialize(model)
	if err != nil {
		return nil, err
	}

	data, err := msgpack.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("archive %T: %w", model, err)
	}

	return data, nil
}

// Unarchive decodes an archive produced by Archive into dest.
func (m *Mapper) Unarchive(ctx context.Context, data []byte, dest any) error {
	var doc map[string]any
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: archive: %v", ErrSourceValue, err)
	}

	return m.Decode(ctx, doc, dest)
}
