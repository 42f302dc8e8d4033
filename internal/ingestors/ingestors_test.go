package ingestors

import (
	"testing"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/ingestors/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetIngestor(t *testing.T) {
	ingestor, err := GetIngestor(".zip")
	require.NoError(t, err)

	zipIngestor, ok := ingestor.(*zip.Ingestor)
	require.True(t, ok, "expected *zip.Ingestor, got %T", ingestor)
	assert.Equal(t, ".zip", zipIngestor.Extension())

	again, err := GetIngestor(".zip")
	require.NoError(t, err)
	assert.NotSame(t, ingestor, again, "every lookup builds a fresh ingestor")
}

func TestGetIngestor_Unsupported(t *testing.T) {
	for _, extension := range []string{".csv", ".tar", ".gz", ".ZIP", "zip", "", ".zip "} {
		t.Run(extension, func(t *testing.T) {
			ingestor, err := GetIngestor(extension)
			require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
			assert.Nil(t, ingestor)

			var typeErr *engine.UnsupportedTypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, extension, typeErr.Kind)
			assert.Equal(t, []string{".zip"}, typeErr.Available)
		})
	}
}

func TestRegister_Configured(t *testing.T) {
	registry := engine.NewRegistry(zap.NewNop())
	Register(registry, zip.Config{WorkDir: "scratch"}, zip.WithFs(afero.NewMemMapFs()))

	ingestor, err := registry.CreateIngestor(".zip")
	require.NoError(t, err)
	assert.Equal(t, "zip(scratch)", ingestor.Name())
}

func TestForPath(t *testing.T) {
	registry := engine.NewRegistry(zap.NewNop())
	Register(registry, zip.Config{})

	ingestor, err := ForPath(registry, "data/archive.zip")
	require.NoError(t, err)
	assert.Equal(t, "zip", ingestor.Kind())

	_, err = ForPath(registry, "data/archive.tar.gz")
	require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
	assert.ErrorContains(t, err, "data/archive.tar.gz")
	assert.ErrorContains(t, err, `".gz"`)
}
