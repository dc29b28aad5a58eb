package service

import (
	"context"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *entity.Cart, ttl time.Duration) error {
	args := m.Called(ctx, cart, ttl)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) (string, error) {
	args := m.Called(ctx, product)
	return args.String(0), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, productID string) (*entity.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, productIDs []string) ([]entity.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SetActive(ctx context.Context, productID string, active bool) error {
	args := m.Called(ctx, productID, active)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, params repository.ListProductsParams) (*repository.ListProductsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListProductsResult), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *entity.Order, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, params repository.ListOrdersParams) (*repository.ListOrdersResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListOrdersResult), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) (string, error) {
	args := m.Called(ctx, category)
	return args.String(0), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, categoryID string) (*entity.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsWithSlugOrName(ctx context.Context, slug, name, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SetActive(ctx context.Context, categoryID string, active bool) error {
	args := m.Called(ctx, categoryID, active)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListCategoriesResult), args.Error(1)
}

func (m *MockCategoryRepository) ReplaceParents(ctx context.Context, categoryID string, parentIDs []string) error {
	args := m.Called(ctx, categoryID, parentIDs)
	return args.Error(0)
}

func (m *MockCategoryRepository) ParentIDs(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryRepository) ChildIDs(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryRepository) DescendantIDs(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryRepository) DetachAll(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListUsersResult), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Store(ctx context.Context, token *entity.RefreshToken) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Store(ctx context.Context, request *entity.PasswordResetRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordResetRepository) GetActive(ctx context.Context, userID, code string) (*entity.PasswordResetRequest, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PasswordResetRequest), args.Error(1)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entity.Notification) (string, error) {
	args := m.Called(ctx, notification)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, params repository.ListNotificationsParams) (*repository.ListNotificationsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListNotificationsResult), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, ownerID string) error {
	args := m.Called(ctx, notificationID, ownerID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyUser(ctx context.Context, userID, notifType, title, body string) error {
	args := m.Called(ctx, userID, notifType, title, body)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyAdmins(ctx context.Context, notifType, title, body string) error {
	args := m.Called(ctx, notifType, title, body)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, userID string, adminInbox, onlyUnread bool, page, pageSize int) (*repository.ListNotificationsResult, error) {
	args := m.Called(ctx, userID, adminInbox, onlyUnread, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListNotificationsResult), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, notificationID, ownerID string) error {
	args := m.Called(ctx, notificationID, ownerID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
