package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/mocks"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
	"github.com/dukex/nodegraph/pkg/persistence/file"
	"github.com/dukex/nodegraph/pkg/persistence/persistencetest"
	"github.com/dukex/nodegraph/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRunner() *Runner {
	reg := registry.NewRegistry(discardLogger())
	reg.RegisterDefaultNodes()

	return NewRunner(reg, discardLogger())
}

func newFileService(t *testing.T) *Graphs {
	t.Helper()

	p, err := file.NewPersistence(t.Context(), discardLogger(), t.TempDir())
	require.NoError(t, err)

	return NewGraphs(p, newRunner(), discardLogger())
}

func TestGraphs_Create(t *testing.T) {
	service := newFileService(t)

	record := persistencetest.SampleRecord("")
	record.Name = "  Wave  "

	created, err := service.Create(t.Context(), record)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Wave", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	loaded, err := service.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Document, loaded.Document)
}

func TestGraphs_CreateValidation(t *testing.T) {
	service := newFileService(t)

	_, err := service.Create(t.Context(), nil)
	require.ErrorIs(t, err, ErrGraphNil)

	noName := persistencetest.SampleRecord("level-1")
	noName.Name = " "
	_, err = service.Create(t.Context(), noName)
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.True(t, IsValidationError(err))

	badPath := persistencetest.SampleRecord("a/b")
	_, err = service.Create(t.Context(), badPath)
	require.ErrorIs(t, err, ErrInvalidRequest)

	badNode := persistencetest.SampleRecord("level-2")
	badNode.Document.Nodes[0].Type = ""
	_, err = service.Create(t.Context(), badNode)
	require.ErrorIs(t, err, ErrInvalidRequest)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "invalid_document", serviceErr.Code)
}

func TestGraphs_GetAndDeleteMissing(t *testing.T) {
	service := newFileService(t)

	_, err := service.Get(t.Context(), "missing")
	require.ErrorIs(t, err, ErrGraphNotFound)

	require.ErrorIs(t, service.Delete(t.Context(), "missing"), ErrGraphNotFound)
}

func TestGraphs_ListAndDelete(t *testing.T) {
	service := newFileService(t)

	_, err := service.Create(t.Context(), persistencetest.SampleRecord("level-1"))
	require.NoError(t, err)

	records, err := service.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, service.Delete(t.Context(), "level-1"))

	records, err = service.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGraphs_Execute(t *testing.T) {
	service := newFileService(t)

	_, err := service.Create(t.Context(), persistencetest.SampleRecord("level-1"))
	require.NoError(t, err)

	response, err := service.Execute(t.Context(), "level-1", ExecuteRequest{Debug: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"wave_1", "spawn_1"}, response.Result.Executed)
	assert.Equal(t, "wave_1", response.Result.StartNodeID)
	assert.False(t, response.Result.Partial())
	assert.True(t, response.LoadReport.Clean())

	require.Len(t, response.Log, 2)
	assert.Equal(t, models.NodeStatusCompleted, response.Log[1].Status)

	spawned, ok := response.Log[1].Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 5, spawned["count"])
}

func TestGraphs_ExecuteWithoutDebugHasEmptyLog(t *testing.T) {
	service := newFileService(t)

	_, err := service.Create(t.Context(), persistencetest.SampleRecord("level-1"))
	require.NoError(t, err)

	response, err := service.Execute(t.Context(), "level-1", ExecuteRequest{})
	require.NoError(t, err)
	assert.Empty(t, response.Log)
	assert.NotNil(t, response.Log)
}

func TestGraphs_ExecuteUnknownStart(t *testing.T) {
	service := newFileService(t)

	_, err := service.Create(t.Context(), persistencetest.SampleRecord("level-1"))
	require.NoError(t, err)

	_, err = service.Execute(t.Context(), "level-1", ExecuteRequest{StartNode: "nope"})
	require.ErrorIs(t, err, executor.ErrStartNodeNotFound)
	assert.True(t, IsValidationError(err))
}

func TestGraphs_ExecuteReportsSkippedNodes(t *testing.T) {
	service := newFileService(t)

	record := persistencetest.SampleRecord("level-1")
	record.Document.Nodes = append(record.Document.Nodes, models.SerializedNode{ID: "boss", Type: "boss_fight"})

	_, err := service.Create(t.Context(), record)
	require.NoError(t, err)

	response, err := service.Execute(t.Context(), "level-1", ExecuteRequest{})
	require.NoError(t, err)

	require.Len(t, response.LoadReport.SkippedNodes, 1)
	assert.Equal(t, "boss", response.LoadReport.SkippedNodes[0].ID)
}

func TestGraphs_PersistenceFailures(t *testing.T) {
	store := &mocks.MockPersistence{}
	service := NewGraphs(store, newRunner(), discardLogger())

	boom := errors.New("connection reset")

	store.On("List", mock.Anything).Return(nil, boom)
	store.On("GetByID", mock.Anything, "level-1").
		Return(nil, persistence.NewGraphError("GetByID", "level-1", persistence.ErrGraphNotFound))
	store.On("Save", mock.Anything, mock.AnythingOfType("*models.GraphRecord")).Return(boom)

	_, err := service.List(t.Context())
	require.ErrorIs(t, err, boom)

	_, err = service.Execute(t.Context(), "level-1", ExecuteRequest{})
	require.ErrorIs(t, err, ErrGraphNotFound)

	_, err = service.Create(t.Context(), persistencetest.SampleRecord("level-2"))
	require.ErrorIs(t, err, boom)
	assert.False(t, IsValidationError(err))

	store.AssertExpectations(t)
}

func TestGraphs_HealthCheck(t *testing.T) {
	store := &mocks.MockPersistence{}
	store.On("HealthCheck", mock.Anything).Return(errors.New("down")).Once()
	store.On("HealthCheck", mock.Anything).Return(nil).Once()

	service := NewGraphs(store, newRunner(), discardLogger())

	message, ok := service.HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, message, "down")

	_, ok = service.HealthCheck(t.Context())
	assert.True(t, ok)

	_, ok = NewGraphs(nil, newRunner(), discardLogger()).HealthCheck(t.Context())
	assert.False(t, ok)
}
