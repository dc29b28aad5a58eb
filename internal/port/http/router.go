package http

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/handler"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/middleware"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/ws"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	Notification  *handler.NotificationHandler
	Contact       *handler.ContactHandler
	AuthService   service.AuthService
	Hub           *ws.Hub
	Metrics       *metrics.Manager
	Log           logger.Logger
	TracingActive bool
}

// NewRouter assembles the full route table.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(h.Log))
	r.Use(middleware.Metrics(h.Metrics))
	if h.TracingActive {
		r.Use(middleware.Tracing)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	r.Get("/ws", ws.Handler(h.Hub, h.AuthService, h.Log))

	r.Route("/api", func(api chi.Router) {
		// Public.
		api.Post("/auth/register", h.Auth.Register)
		api.Post("/auth/login", h.Auth.Login)
		api.Post("/auth/refresh", h.Auth.Refresh)
		api.Post("/auth/password-reset", h.Auth.RequestPasswordReset)
		api.Post("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset)
		api.Post("/contact", h.Contact.Submit)

		api.Get("/products", h.Product.List)
		api.Get("/products/{productID}", h.Product.Get)
		api.Get("/categories", h.Category.List)
		api.Get("/categories/{categoryID}", h.Category.Get)

		// Authenticated.
		api.Group(func(auth chi.Router) {
			auth.Use(middleware.JWTAuth(h.AuthService))

			auth.Post("/auth/logout", h.Auth.Logout)
			auth.Get("/user/profile", h.User.GetProfile)
			auth.Put("/user/profile", h.User.UpdateProfile)
			auth.Post("/user/change-password", h.User.ChangePassword)

			auth.Get("/cart", h.Cart.Get)
			auth.Post("/cart/items", h.Cart.AddItem)
			auth.Put("/cart/items/{productID}", h.Cart.UpdateItem)
			auth.Delete("/cart/items/{productID}", h.Cart.RemoveItem)
			auth.Delete("/cart", h.Cart.Clear)

			auth.Post("/orders", h.Order.Checkout)
			auth.Get("/orders", h.Order.ListMine)
			auth.Get("/orders/{orderID}", h.Order.Get)
			auth.Post("/orders/{orderID}/confirm", h.Order.Confirm)
			auth.Post("/orders/{orderID}/modifications/accept", h.Order.AcceptModifications)
			auth.Post("/orders/{orderID}/modifications/reject", h.Order.RejectModifications)
			auth.Post("/orders/{orderID}/cancel", h.Order.Cancel)

			auth.Get("/notifications", h.Notification.List)
			auth.Get("/notifications/unread-count", h.Notification.UnreadCount)
			auth.Post("/notifications/{notificationID}/read", h.Notification.MarkRead)
			auth.Post("/notifications/read-all", h.Notification.MarkAllRead)

			// Admin.
			auth.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdmin)

				admin.Post("/admin/products", h.Product.Create)
				admin.Put("/admin/products/{productID}", h.Product.Update)
				admin.Delete("/admin/products/{productID}", h.Product.Deactivate)
				admin.Post("/admin/products/{productID}/activate", h.Product.Activate)
				admin.Put("/admin/products/{productID}/categories", h.Product.SetCategories)
				admin.Post("/admin/products/{productID}/discounts", h.Product.AddDiscount)
				admin.Put("/admin/products/{productID}/discounts/{discountID}", h.Product.UpdateDiscount)
				admin.Delete("/admin/products/{productID}/discounts/{discountID}", h.Product.RemoveDiscount)
				admin.Post("/admin/products/{productID}/images", h.Product.UploadImage)
				admin.Delete("/admin/products/{productID}/images", h.Product.RemoveImage)

				admin.Post("/admin/categories", h.Category.Create)
				admin.Put("/admin/categories/{categoryID}", h.Category.Update)
				admin.Put("/admin/categories/{categoryID}/parents", h.Category.AssignParents)
				admin.Delete("/admin/categories/{categoryID}", h.Category.Deactivate)

				admin.Get("/admin/orders", h.Order.AdminList)
				admin.Post("/admin/orders/{orderID}/approve", h.Order.Approve)
				admin.Post("/admin/orders/{orderID}/reject", h.Order.Reject)
				admin.Post("/admin/orders/{orderID}/ready", h.Order.MarkReady)
				admin.Post("/admin/orders/{orderID}/complete", h.Order.Complete)
				admin.Post("/admin/orders/{orderID}/modify", h.Order.Modify)

				admin.Post("/admin/users", h.User.AdminCreateUser)
				admin.Get("/admin/users", h.User.AdminListUsers)
				admin.Get("/admin/users/{userID}", h.User.AdminGetUser)
				admin.Put("/admin/users/{userID}", h.User.AdminUpdateUser)
				admin.Post("/admin/users/{userID}/set-active", h.User.AdminSetUserActive)

				admin.Get("/admin/contact-messages", h.Contact.List)
			})
		})
	})

	return r
}
