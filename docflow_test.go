package docflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docflow/core"
	embedmock "github.com/poiesic/docflow/embed/mock"
	"github.com/poiesic/docflow/ingestion"
	parsermock "github.com/poiesic/docflow/parser/mock"
	storemock "github.com/poiesic/docflow/vectorstore/mock"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.DocumentRepository())
		assert.NotNil(t, db.TaskRepository())
		assert.NotNil(t, db.ContentStore())
		assert.NotNil(t, db.VectorStore())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("in-memory with empty path", func(t *testing.T) {
		db, err := NewDatabase("")
		require.NoError(t, err)
		defer db.Close()

		assert.NotNil(t, db.backend)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file where the database directory should be
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase("",
		WithParserClient(parsermock.NewMockParser()),
		WithEmbedder(embedmock.NewMockEmbedder()),
		WithVectorStore(storemock.NewMockStore()),
	)
	require.NoError(t, err)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create resyncer", func(t *testing.T) {
		r := db.NewResyncer("knowledge", nil, os.Stderr)
		require.NotNil(t, r)
	})
}

func TestDatabase_EndToEndIngest(t *testing.T) {
	store := storemock.NewMockStore()
	db, err := NewDatabase("",
		WithParserClient(parsermock.NewMockParser()),
		WithEmbedder(embedmock.NewMockEmbedder()),
		WithVectorStore(store),
	)
	require.NoError(t, err)
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	ids, err := pipeline.Ingest(ctx, ingestion.File{
		Name:     "report.txt",
		MimeType: "text/plain",
		Data:     []byte("设备异常。检测完成。"),
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	pipeline.Wait()

	doc, err := db.DocumentRepository().GetDocument(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStatusCompleted, doc.Status)
	assert.Equal(t, 2, doc.ChunkCount)
}
