package mutate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

// mockStore is a strict Store double: any call without a matching expectation fails
// the test.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) FetchCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockStore) FetchTags(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *mockStore) FetchCategoryRelationships(ctx context.Context) ([]model.CategoryEdge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.CategoryEdge), args.Error(1)
}

func (m *mockStore) AddCategory(ctx context.Context, in model.NewCategory) (model.Category, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *mockStore) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockStore) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) AddCategoryRelationship(ctx context.Context, in model.NewCategoryEdge) (model.CategoryEdge, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.CategoryEdge), args.Error(1)
}

func (m *mockStore) UpdateCategoryRelationship(ctx context.Context, id string, position int) error {
	return m.Called(ctx, id, position).Error(0)
}

func (m *mockStore) DeleteCategoryRelationship(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) AddTag(ctx context.Context, name string) (model.Tag, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Tag), args.Error(1)
}

func (m *mockStore) UpdateTag(ctx context.Context, id, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *mockStore) DeleteTag(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) expectSnapshot(cats []model.Category, edges []model.CategoryEdge) {
	m.On("FetchCategories", mock.Anything).Return(cats, nil)
	m.On("FetchTags", mock.Anything).Return([]model.Tag{}, nil)
	m.On("FetchCategoryRelationships", mock.Anything).Return(edges, nil)
}

func codingSnapshot() ([]model.Category, []model.CategoryEdge) {
	return []model.Category{
			{ID: "1", Name: "Coding", Position: 0},
			{ID: "2", Name: "JS", Position: 0},
			{ID: "3", Name: "CSS", Position: 1},
		}, []model.CategoryEdge{
			{ID: "e1", ParentID: "1", ChildID: "2", Position: 0},
			{ID: "e1b", ParentID: "1", ChildID: "3", Position: 1},
		}
}

func TestMock_CycleMoveNeverReachesStore(t *testing.T) {
	st := &mockStore{}
	cats, edges := codingSnapshot()
	st.expectSnapshot(cats, edges)

	s := NewSession(st, zap.NewNop(), Options{})
	require.NoError(t, s.Refresh(context.Background()))

	err := s.Move(context.Background(), "1", "2", 0)
	var ce *tree.CycleError
	require.ErrorAs(t, err, &ce)
	st.AssertNotCalled(t, "DeleteCategoryRelationship", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "AddCategoryRelationship", mock.Anything, mock.Anything)
	st.AssertNumberOfCalls(t, "FetchCategories", 1)
}

func TestMock_DeleteIssuesOneStoreCallThenRefetches(t *testing.T) {
	st := &mockStore{}
	cats, edges := codingSnapshot()
	st.expectSnapshot(cats, edges)
	st.On("DeleteCategory", mock.Anything, "1").Return(nil).Once()

	s := NewSession(st, zap.NewNop(), Options{})
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.DeleteCategory(context.Background(), "1"))

	st.AssertExpectations(t)
	st.AssertNumberOfCalls(t, "DeleteCategory", 1)
	st.AssertNumberOfCalls(t, "FetchCategories", 2)
	assert.Equal(t, StatusSuccess, s.Status().Kind)
}

func TestMock_ExpandPersistsFlagOnly(t *testing.T) {
	st := &mockStore{}
	cats, edges := codingSnapshot()
	st.expectSnapshot(cats, edges)
	collapsed := false
	st.On("UpdateCategory", mock.Anything, "1", model.CategoryPatch{IsExpanded: &collapsed}).Return(nil).Once()

	s := NewSession(st, zap.NewNop(), Options{})
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.SetExpanded(context.Background(), "1", false))

	st.AssertExpectations(t)
	st.AssertNumberOfCalls(t, "FetchCategories", 1)
	assert.False(t, s.IsExpanded("1"))
}

func TestMock_ReparentDeletesOldEdgeBeforeCreating(t *testing.T) {
	st := &mockStore{}
	cats := []model.Category{
		{ID: "1", Name: "Coding", Position: 0},
		{ID: "2", Name: "JS", Position: 0},
		{ID: "4", Name: "Web", Position: 1},
	}
	edges := []model.CategoryEdge{{ID: "e1", ParentID: "1", ChildID: "2", Position: 0}}
	st.expectSnapshot(cats, edges)

	var order []string
	st.On("DeleteCategoryRelationship", mock.Anything, "e1").
		Run(func(mock.Arguments) { order = append(order, "delete") }).
		Return(nil).Once()
	st.On("AddCategoryRelationship", mock.Anything, model.NewCategoryEdge{ParentID: "4", ChildID: "2", Position: 0}).
		Run(func(mock.Arguments) { order = append(order, "create") }).
		Return(model.CategoryEdge{}, errors.New("disk full")).Once()

	s := NewSession(st, zap.NewNop(), Options{})
	require.NoError(t, s.Refresh(context.Background()))

	err := s.Move(context.Background(), "2", "4", 0)
	require.Error(t, err)
	assert.True(t, IsStore(err))
	assert.Equal(t, []string{"delete", "create"}, order)
	assert.Equal(t, StatusError, s.Status().Kind)
	st.AssertExpectations(t)
}
