package service

import (
	"context"
	"testing"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCategory(id, name string) *entity.Category {
	c, _ := entity.NewCategory(name, "")
	c.ID = id
	return c
}

func TestCategoryService_Create(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("ExistsWithSlugOrName", mock.Anything, "power-tools", "Power Tools", "").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return("c1", nil)

	category, err := svc.Create(context.Background(), "Power Tools", "", nil)

	assert.NoError(t, err)
	assert.Equal(t, "c1", category.ID)
	assert.Equal(t, "power-tools", category.Slug)
	assert.True(t, category.Active)
}

func TestCategoryService_Create_DuplicateSlug(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("ExistsWithSlugOrName", mock.Anything, "power-tools", "Power Tools", "").Return(true, nil)

	_, err := svc.Create(context.Background(), "Power Tools", "", nil)

	assert.IsType(t, &domain.ConflictError{}, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_AssignParents(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("GetByID", mock.Anything, "c1").Return(testCategory("c1", "Drills"), nil)
	repo.On("GetByID", mock.Anything, "c2").Return(testCategory("c2", "Power Tools"), nil)
	repo.On("DescendantIDs", mock.Anything, "c1").Return([]string{}, nil)
	repo.On("ReplaceParents", mock.Anything, "c1", []string{"c2"}).Return(nil)

	err := svc.AssignParents(context.Background(), "c1", []string{"c2"})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCategoryService_AssignParents_RejectsCycle(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	// c3 sits below c1, so making it a parent of c1 closes a loop.
	repo.On("GetByID", mock.Anything, "c1").Return(testCategory("c1", "Drills"), nil)
	repo.On("DescendantIDs", mock.Anything, "c1").Return([]string{"c2", "c3"}, nil)

	err := svc.AssignParents(context.Background(), "c1", []string{"c3"})

	assert.IsType(t, &domain.ValidationError{}, err)
	repo.AssertNotCalled(t, "ReplaceParents", mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_AssignParents_RejectsSelf(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("GetByID", mock.Anything, "c1").Return(testCategory("c1", "Drills"), nil)
	repo.On("DescendantIDs", mock.Anything, "c1").Return([]string{}, nil)

	err := svc.AssignParents(context.Background(), "c1", []string{"c1"})

	assert.IsType(t, &domain.ValidationError{}, err)
}

func TestCategoryService_Get_ResolvesRelations(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("GetByID", mock.Anything, "c1").Return(testCategory("c1", "Drills"), nil)
	repo.On("GetByID", mock.Anything, "c2").Return(testCategory("c2", "Power Tools"), nil)
	repo.On("GetByID", mock.Anything, "c3").Return(testCategory("c3", "Cordless Drills"), nil)
	repo.On("ParentIDs", mock.Anything, "c1").Return([]string{"c2"}, nil)
	repo.On("ChildIDs", mock.Anything, "c1").Return([]string{"c3"}, nil)

	tree, err := svc.Get(context.Background(), "c1")

	assert.NoError(t, err)
	assert.Equal(t, "c1", tree.Category.ID)
	assert.Len(t, tree.Parents, 1)
	assert.Equal(t, "c2", tree.Parents[0].ID)
	assert.Len(t, tree.Children, 1)
	assert.Equal(t, "c3", tree.Children[0].ID)
}

func TestCategoryService_Deactivate_DetachesEdges(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, logger.NewNop())

	repo.On("SetActive", mock.Anything, "c1", false).Return(nil)
	repo.On("DetachAll", mock.Anything, "c1").Return(nil)

	assert.NoError(t, svc.Deactivate(context.Background(), "c1"))
	repo.AssertExpectations(t)
}
