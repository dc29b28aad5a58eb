package service

import (
	"context"
	"testing"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*entity.PricedCart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricedCart), args.Error(1)
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, userID, productID string, newQuantity int) (*entity.PricedCart, error) {
	args := m.Called(ctx, userID, productID, newQuantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricedCart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID string) (*entity.PricedCart, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricedCart), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*entity.PricedCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PricedCart), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newOrderServiceForTest(orderRepo *MockOrderRepository, cartService *MockCartService, notifier *MockNotificationService, publisher *MockPublisher) OrderService {
	return NewOrderService(orderRepo, cartService, notifier, publisher, metrics.NewManager("test"), logger.NewNop())
}

func pricedCartFixture(userID string) *entity.PricedCart {
	unit := decimal.RequireFromString("10.00")
	discounted := decimal.RequireFromString("8.00")
	return &entity.PricedCart{
		UserID:   userID,
		Currency: "EUR",
		Items: []entity.PricedCartItem{
			{
				ProductID:             "p1",
				ProductCode:           "SKU1",
				ProductName:           "Widget",
				Quantity:              10,
				UnitPrice:             unit,
				DiscountPercent:       decimal.RequireFromString("20"),
				UnitPriceWithDiscount: discounted,
				LineTotal:             discounted.Mul(decimal.NewFromInt(10)),
			},
		},
		Total: discounted.Mul(decimal.NewFromInt(10)),
	}
}

func pendingOrderFixture(userID string) *entity.Order {
	priced := pricedCartFixture(userID)
	item, _ := entity.NewOrderItem(priced.Items[0])
	order, _ := entity.NewOrder(userID, []entity.OrderItem{*item}, "EUR", "")
	order.ID = "o1"
	return order
}

func TestOrderService_Checkout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartService := new(MockCartService)
	notifier := new(MockNotificationService)
	publisher := new(MockPublisher)
	svc := newOrderServiceForTest(orderRepo, cartService, notifier, publisher)

	cartService.On("GetCart", mock.Anything, "u1").Return(pricedCartFixture("u1"), nil)
	cartService.On("ClearCart", mock.Anything, "u1").Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return("o1", nil)
	publisher.On("Publish", mock.Anything, SubjectOrderCreated, mock.Anything).Return(nil)
	notifier.On("NotifyAdmins", mock.Anything, entity.NotificationOrderCreated, mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Checkout(context.Background(), "u1", "leave at the desk")

	assert.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, entity.StatusPendingApproval, order.Status)
	assert.Equal(t, "leave at the desk", order.UserNote)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("80.00")))
	cartService.AssertCalled(t, "ClearCart", mock.Anything, "u1")
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartService := new(MockCartService)
	svc := newOrderServiceForTest(orderRepo, cartService, new(MockNotificationService), new(MockPublisher))

	cartService.On("GetCart", mock.Anything, "u1").Return(&entity.PricedCart{UserID: "u1"}, nil)

	_, err := svc.Checkout(context.Background(), "u1", "")

	assert.Error(t, err)
	assert.IsType(t, &domain.ValidationError{}, err)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Approve(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartService := new(MockCartService)
	notifier := new(MockNotificationService)
	publisher := new(MockPublisher)
	svc := newOrderServiceForTest(orderRepo, cartService, notifier, publisher)

	order := pendingOrderFixture("u1")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, 1).Return(nil)
	publisher.On("Publish", mock.Anything, SubjectOrderUpdated, mock.Anything).Return(nil)
	notifier.On("NotifyUser", mock.Anything, "u1", entity.NotificationOrderUpdated, mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.Approve(context.Background(), "o1", "admin1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, updated.Status)
	assert.Equal(t, "admin1", updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)
	assert.Equal(t, 2, updated.Version)
}

func TestOrderService_Approve_InvalidTransition(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	order.Status = entity.StatusCompleted
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)

	_, err := svc.Approve(context.Background(), "o1", "admin1")

	assert.Error(t, err)
	assert.IsType(t, &domain.ConflictError{}, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_OptimisticLockSurfacesConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, 1).Return(repository.ErrOptimisticLock)

	_, err := svc.Approve(context.Background(), "o1", "admin1")

	assert.Error(t, err)
	assert.IsType(t, &domain.ConflictError{}, err)
}

func TestOrderService_ModifyItems(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notifier := new(MockNotificationService)
	publisher := new(MockPublisher)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), notifier, publisher)

	order := pendingOrderFixture("u1")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, 1).Return(nil)
	publisher.On("Publish", mock.Anything, SubjectOrderUpdated, mock.Anything).Return(nil)
	notifier.On("NotifyUser", mock.Anything, "u1", entity.NotificationOrderUpdated, mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.ModifyItems(context.Background(), "o1", "admin1", map[string]int{"p1": 4}, "only 4 left")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusModificationPending, updated.Status)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.NotNil(t, updated.Items[0].OriginalQuantity)
	assert.Equal(t, 10, *updated.Items[0].OriginalQuantity)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("32.00")))
	assert.Equal(t, "only 4 left", updated.AdminNote)
}

func TestOrderService_ModifyItems_UnknownProduct(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)

	_, err := svc.ModifyItems(context.Background(), "o1", "admin1", map[string]int{"nope": 2}, "")

	assert.Error(t, err)
	assert.IsType(t, &domain.ConflictError{}, err)
}

func TestOrderService_AcceptModifications(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notifier := new(MockNotificationService)
	publisher := new(MockPublisher)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), notifier, publisher)

	order := pendingOrderFixture("u1")
	_ = order.ApplyModifications(map[string]int{"p1": 4}, "admin1", "")
	version := order.Version

	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, version).Return(nil)
	publisher.On("Publish", mock.Anything, SubjectOrderUpdated, mock.Anything).Return(nil)
	notifier.On("NotifyAdmins", mock.Anything, entity.NotificationOrderUpdated, mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.AcceptModifications(context.Background(), "o1", "u1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, updated.Status)
}

func TestOrderService_AcceptModifications_WrongUser(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	_ = order.ApplyModifications(map[string]int{"p1": 4}, "admin1", "")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)

	_, err := svc.AcceptModifications(context.Background(), "o1", "someone-else")

	assert.Error(t, err)
	assert.IsType(t, &domain.ForbiddenError{}, err)
}

func TestOrderService_Cancel_UserAfterConfirmationRejected(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	order.Status = entity.StatusConfirmed
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)

	_, err := svc.Cancel(context.Background(), "o1", "u1", false, "changed my mind")

	assert.Error(t, err)
	assert.IsType(t, &domain.ConflictError{}, err)
}

func TestOrderService_Cancel_AdminBeforeTerminal(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notifier := new(MockNotificationService)
	publisher := new(MockPublisher)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), notifier, publisher)

	order := pendingOrderFixture("u1")
	order.Status = entity.StatusConfirmed
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, 1).Return(nil)
	publisher.On("Publish", mock.Anything, SubjectOrderUpdated, mock.Anything).Return(nil)
	notifier.On("NotifyUser", mock.Anything, "u1", entity.NotificationOrderUpdated, mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.Cancel(context.Background(), "o1", "admin1", true, "out of stock")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, updated.Status)
	assert.Equal(t, "admin1", updated.CancelledBy)
	assert.Equal(t, "out of stock", updated.StatusReason)
}

func TestOrderService_GetOrder_OwnershipEnforced(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newOrderServiceForTest(orderRepo, new(MockCartService), new(MockNotificationService), new(MockPublisher))

	order := pendingOrderFixture("u1")
	orderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil)

	_, err := svc.GetOrder(context.Background(), "o1", "intruder", false)
	assert.IsType(t, &domain.ForbiddenError{}, err)

	got, err := svc.GetOrder(context.Background(), "o1", "intruder", true)
	assert.NoError(t, err)
	assert.Equal(t, "o1", got.ID)
}
