package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/nats"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
)

type OrderService interface {
	// Checkout freezes the priced cart into an order awaiting approval and
	// clears the cart.
	Checkout(ctx context.Context, userID, userNote string) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID, requesterID string, isAdmin bool) (*entity.Order, error)
	ListUserOrders(ctx context.Context, userID, status string, page, pageSize int) (*repository.ListOrdersResult, error)
	ListAllOrders(ctx context.Context, params repository.ListOrdersParams) (*repository.ListOrdersResult, error)

	// Admin lifecycle.
	Approve(ctx context.Context, orderID, adminID string) (*entity.Order, error)
	Reject(ctx context.Context, orderID, adminID, reason string) (*entity.Order, error)
	MarkReadyForPickup(ctx context.Context, orderID, adminID string) (*entity.Order, error)
	Complete(ctx context.Context, orderID, adminID string) (*entity.Order, error)
	// ModifyItems edits line quantities on a pending order and hands it back
	// to the user for acceptance.
	ModifyItems(ctx context.Context, orderID, adminID string, quantities map[string]int, note string) (*entity.Order, error)

	// User lifecycle.
	Confirm(ctx context.Context, orderID, userID string) (*entity.Order, error)
	AcceptModifications(ctx context.Context, orderID, userID string) (*entity.Order, error)
	RejectModifications(ctx context.Context, orderID, userID, reason string) (*entity.Order, error)
	Cancel(ctx context.Context, orderID, actorID string, isAdmin bool, reason string) (*entity.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartService CartService
	notifier    NotificationService
	publisher   nats.MessagePublisher
	metrics     *metrics.Manager
	log         logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartService CartService,
	notifier NotificationService,
	publisher nats.MessagePublisher,
	metricsManager *metrics.Manager,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartService: cartService,
		notifier:    notifier,
		publisher:   publisher,
		metrics:     metricsManager,
		log:         log,
	}
}

func (s *orderService) Checkout(ctx context.Context, userID, userNote string) (*entity.Order, error) {
	pricedCart, err := s.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(pricedCart.Items) == 0 {
		return nil, domain.NewValidation("cart is empty")
	}

	items := make([]entity.OrderItem, 0, len(pricedCart.Items))
	for _, line := range pricedCart.Items {
		item, err := entity.NewOrderItem(line)
		if err != nil {
			return nil, domain.NewValidation("%s", err.Error())
		}
		items = append(items, *item)
	}

	order, err := entity.NewOrder(userID, items, pricedCart.Currency, userNote)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}

	id, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("could not create order: %w", err)
	}
	order.ID = id
	s.metrics.OrdersCreatedTotal.Inc()

	if err := s.cartService.ClearCart(ctx, userID); err != nil {
		s.log.Warnf("Order %s created but cart for user %s was not cleared: %v", id, userID, err)
	}

	s.publishOrderEvent(ctx, SubjectOrderCreated, "OrderCreated", order)
	if err := s.notifier.NotifyAdmins(ctx, entity.NotificationOrderCreated,
		"New order awaiting approval",
		fmt.Sprintf("Order %s for %s %s needs review", order.ID, order.TotalAmount.StringFixed(2), order.Currency),
	); err != nil {
		s.log.Warnf("Failed to notify admins about order %s: %v", id, err)
	}

	s.log.Infof("Order %s created for user %s, total %s %s", id, userID, order.TotalAmount.StringFixed(2), order.Currency)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID, requesterID string, isAdmin bool) (*entity.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, domain.NewForbidden("order %s does not belong to the requester", orderID)
	}
	return order, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID, status string, page, pageSize int) (*repository.ListOrdersResult, error) {
	return s.orderRepo.List(ctx, repository.ListOrdersParams{
		UserID:   userID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *orderService) ListAllOrders(ctx context.Context, params repository.ListOrdersParams) (*repository.ListOrdersResult, error) {
	return s.orderRepo.List(ctx, params)
}

func (s *orderService) getOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("order %s not found", orderID)
		}
		return nil, fmt.Errorf("could not load order %s: %w", orderID, err)
	}
	return order, nil
}

// transition loads the order, applies the status change and persists it
// under the optimistic version filter. Concurrent writers surface as a
// conflict for the caller to retry.
func (s *orderService) transition(ctx context.Context, orderID string, newStatus entity.OrderStatus, actorID, reason string, guard func(*entity.Order) error) (*entity.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(order); err != nil {
			return nil, err
		}
	}

	expectedVersion := order.Version
	if err := order.UpdateStatus(newStatus, actorID, reason); err != nil {
		return nil, domain.NewConflict("%s", err.Error())
	}

	if err := s.orderRepo.Update(ctx, order, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, domain.NewConflict("order %s was changed concurrently, retry", orderID)
		}
		return nil, fmt.Errorf("could not update order %s: %w", orderID, err)
	}

	s.metrics.OrderStatusChangesTotal.WithLabelValues(string(newStatus)).Inc()
	s.publishOrderEvent(ctx, SubjectOrderUpdated, "OrderUpdated", order)
	s.log.Infof("Order %s moved to %s by %s", orderID, newStatus, actorID)
	return order, nil
}

func (s *orderService) publishOrderEvent(ctx context.Context, subject, eventName string, order *entity.Order) {
	event := Event{
		Event:  eventName,
		UserID: order.UserID,
		Data:   order,
	}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", eventName, order.ID, err)
	}
	// Admins follow every order event on their own group.
	adminEvent := event
	adminEvent.Admin = true
	adminEvent.UserID = ""
	if err := s.publisher.Publish(ctx, subject, adminEvent); err != nil {
		s.log.Warnf("Failed to publish admin %s for order %s: %v", eventName, order.ID, err)
	}
}

func (s *orderService) notifyOrderUser(ctx context.Context, order *entity.Order, title, body string) {
	if err := s.notifier.NotifyUser(ctx, order.UserID, entity.NotificationOrderUpdated, title, body); err != nil {
		s.log.Warnf("Failed to notify user %s about order %s: %v", order.UserID, order.ID, err)
	}
}

func (s *orderService) notifyAdmins(ctx context.Context, order *entity.Order, title, body string) {
	if err := s.notifier.NotifyAdmins(ctx, entity.NotificationOrderUpdated, title, body); err != nil {
		s.log.Warnf("Failed to notify admins about order %s: %v", order.ID, err)
	}
}

func (s *orderService) Approve(ctx context.Context, orderID, adminID string) (*entity.Order, error) {
	order, err := s.transition(ctx, orderID, entity.StatusApproved, adminID, "", nil)
	if err != nil {
		return nil, err
	}
	s.notifyOrderUser(ctx, order, "Order approved", fmt.Sprintf("Your order %s was approved, please confirm it", order.ID))
	return order, nil
}

func (s *orderService) Reject(ctx context.Context, orderID, adminID, reason string) (*entity.Order, error) {
	order, err := s.transition(ctx, orderID, entity.StatusRejected, adminID, reason, nil)
	if err != nil {
		return nil, err
	}
	s.notifyOrderUser(ctx, order, "Order rejected", fmt.Sprintf("Your order %s was rejected: %s", order.ID, reason))
	return order, nil
}

func (s *orderService) MarkReadyForPickup(ctx context.Context, orderID, adminID string) (*entity.Order, error) {
	order, err := s.transition(ctx, orderID, entity.StatusReadyForPickup, adminID, "", nil)
	if err != nil {
		return nil, err
	}
	s.notifyOrderUser(ctx, order, "Order ready", fmt.Sprintf("Your order %s is ready for pickup", order.ID))
	return order, nil
}

func (s *orderService) Complete(ctx context.Context, orderID, adminID string) (*entity.Order, error) {
	order, err := s.transition(ctx, orderID, entity.StatusCompleted, adminID, "", nil)
	if err != nil {
		return nil, err
	}
	s.notifyOrderUser(ctx, order, "Order completed", fmt.Sprintf("Your order %s is completed, thank you", order.ID))
	return order, nil
}

func (s *orderService) ModifyItems(ctx context.Context, orderID, adminID string, quantities map[string]int, note string) (*entity.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.Version
	if err := order.ApplyModifications(quantities, adminID, note); err != nil {
		return nil, domain.NewConflict("%s", err.Error())
	}

	if err := s.orderRepo.Update(ctx, order, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, domain.NewConflict("order %s was changed concurrently, retry", orderID)
		}
		return nil, fmt.Errorf("could not update order %s: %w", orderID, err)
	}

	s.metrics.OrderStatusChangesTotal.WithLabelValues(string(entity.StatusModificationPending)).Inc()
	s.publishOrderEvent(ctx, SubjectOrderUpdated, "OrderUpdated", order)
	s.notifyOrderUser(ctx, order, "Order modified",
		fmt.Sprintf("Your order %s was modified, please accept or reject the changes", order.ID))
	s.log.Infof("Order %s modified by admin %s", orderID, adminID)
	return order, nil
}

func ownershipGuard(userID string) func(*entity.Order) error {
	return func(o *entity.Order) error {
		if o.UserID != userID {
			return domain.NewForbidden("order %s does not belong to the requester", o.ID)
		}
		return nil
	}
}

func (s *orderService) Confirm(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := s.transition(ctx, orderID, entity.StatusConfirmed, userID, "", ownershipGuard(userID))
	if err != nil {
		return nil, err
	}
	s.notifyAdmins(ctx, order, "Order confirmed", fmt.Sprintf("Order %s was confirmed by the customer", order.ID))
	return order, nil
}

func (s *orderService) AcceptModifications(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	guard := func(o *entity.Order) error {
		if o.UserID != userID {
			return domain.NewForbidden("order %s does not belong to the requester", o.ID)
		}
		if o.Status != entity.StatusModificationPending {
			return domain.NewConflict("order %s has no pending modifications", o.ID)
		}
		return nil
	}
	order, err := s.transition(ctx, orderID, entity.StatusConfirmed, userID, "", guard)
	if err != nil {
		return nil, err
	}
	s.notifyAdmins(ctx, order, "Modifications accepted", fmt.Sprintf("Order %s modifications were accepted", order.ID))
	return order, nil
}

func (s *orderService) RejectModifications(ctx context.Context, orderID, userID, reason string) (*entity.Order, error) {
	guard := func(o *entity.Order) error {
		if o.UserID != userID {
			return domain.NewForbidden("order %s does not belong to the requester", o.ID)
		}
		if o.Status != entity.StatusModificationPending {
			return domain.NewConflict("order %s has no pending modifications", o.ID)
		}
		return nil
	}
	order, err := s.transition(ctx, orderID, entity.StatusRejected, userID, reason, guard)
	if err != nil {
		return nil, err
	}
	s.notifyAdmins(ctx, order, "Modifications rejected", fmt.Sprintf("Order %s modifications were rejected", order.ID))
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID, actorID string, isAdmin bool, reason string) (*entity.Order, error) {
	guard := func(o *entity.Order) error {
		if !isAdmin && o.UserID != actorID {
			return domain.NewForbidden("order %s does not belong to the requester", o.ID)
		}
		if !o.CanBeCancelledBy(isAdmin) {
			return domain.NewConflict("order %s in status %s can no longer be cancelled", o.ID, o.Status)
		}
		return nil
	}
	order, err := s.transition(ctx, orderID, entity.StatusCancelled, actorID, reason, guard)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		s.notifyOrderUser(ctx, order, "Order cancelled", fmt.Sprintf("Your order %s was cancelled: %s", order.ID, reason))
	} else {
		s.notifyAdmins(ctx, order, "Order cancelled", fmt.Sprintf("Order %s was cancelled by the customer", order.ID))
	}
	return order, nil
}
