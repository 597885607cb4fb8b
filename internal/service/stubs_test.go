package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	listApprovedFn      func(context.Context, uint) ([]*models.Comment, error)
	updateFn            func(context.Context, *models.Comment) error
	deleteWithRepliesFn func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListApprovedByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listApprovedFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) DeleteWithReplies(ctx context.Context, id uint) error {
	return s.deleteWithRepliesFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:            func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listApprovedFn:      func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:            func(_ context.Context, _ *models.Comment) error { return nil },
		deleteWithRepliesFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	getBySlugFn     func(context.Context, string) (*models.Post, error)
	listPublishedFn func(context.Context, int, int) ([]*models.Post, error)
	listAllFn       func(context.Context, int, int) ([]*models.Post, error)
	recentTitlesFn  func(context.Context, int) ([]string, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listPublishedFn(ctx, limit, offset)
}
func (s *postRepoStub) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *postRepoStub) RecentPublishedTitles(ctx context.Context, limit int) ([]string, error) {
	return s.recentTitlesFn(ctx, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getBySlugFn:     func(_ context.Context, s string) (*models.Post, error) { return &models.Post{Slug: s}, nil },
		listPublishedFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listAllFn:       func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		recentTitlesFn:  func(_ context.Context, _ int) ([]string, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	setRoleFn    func(context.Context, uint, models.UserRole) error
	updateFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.UserRole) error {
	return s.setRoleFn(ctx, id, role)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "reader@example.com", DisplayName: "Reader", Role: models.RoleUser, Active: true}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		setRoleFn:    func(_ context.Context, _ uint, _ models.UserRole) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

// settingsRepoStub is a stub for repository.SettingsRepository.
type settingsRepoStub struct {
	getFn    func(context.Context, string) (*models.SettingsDoc, error)
	upsertFn func(context.Context, string, []byte) error
}

func (s *settingsRepoStub) Get(ctx context.Context, name string) (*models.SettingsDoc, error) {
	return s.getFn(ctx, name)
}
func (s *settingsRepoStub) Upsert(ctx context.Context, name string, data []byte) error {
	return s.upsertFn(ctx, name, data)
}

func noopSettingsRepo() *settingsRepoStub {
	return &settingsRepoStub{
		getFn:    func(_ context.Context, _ string) (*models.SettingsDoc, error) { return nil, nil },
		upsertFn: func(_ context.Context, _ string, _ []byte) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
