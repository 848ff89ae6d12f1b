package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"model-mapper/examples/catalog"
	"model-mapper/mapper"
	"model-mapper/resolver"
)

// newCatalogMapper returns a mapper over a private registry holding the catalog.
func newCatalogMapper(t *testing.T, adjust ...func(*mapper.Options)) *mapper.Mapper {
	t.Helper()

	registry := resolver.New()
	require.NoError(t, catalog.Register(registry))

	opts := mapper.DefaultOptions()
	opts.Registry = registry

	for _, fn := range adjust {
		fn(&opts)
	}

	return mapper.New(opts)
}

func requireMapperError(t *testing.T, err error, kind error) *mapper.Error {
	t.Helper()

	require.Error(t, err)
	require.ErrorIs(t, err, kind)

	var mErr *mapper.Error
	require.ErrorAs(t, err, &mErr)

	return mErr
}

func ptr[T any](v T) *T {
	return &v
}
