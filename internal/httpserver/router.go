package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"eshop-api/internal/domain"
	"eshop-api/internal/identity"
	cartsvc "eshop-api/internal/service/cart"
	ordersvc "eshop-api/internal/service/order"
	productsvc "eshop-api/internal/service/product"
	reviewsvc "eshop-api/internal/service/review"
	usersvc "eshop-api/internal/service/user"
)

// UserService is the account surface the router needs.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, usersvc.TokenPair, error)
	Login(ctx context.Context, in usersvc.LoginInput) (*domain.User, usersvc.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, usersvc.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in usersvc.UpdateProfileInput) (*domain.User, error)
	UpdateAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error)
	UpdatePaymentMethod(ctx context.Context, userID, method string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	AdminUpdate(ctx context.Context, id string, in usersvc.AdminUpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ProductService is the catalog surface the router needs.
type ProductService interface {
	List(ctx context.Context, in productsvc.ListInput) (*productsvc.ListResult, error)
	Latest(ctx context.Context) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartService is the cart surface the router needs.
type CartService interface {
	Get(ctx context.Context, id identity.Identity) (*domain.Cart, error)
	AddItem(ctx context.Context, id identity.Identity, in cartsvc.AddItemInput) (*domain.Cart, bool, error)
	UpdateItem(ctx context.Context, id identity.Identity, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, id identity.Identity, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, id identity.Identity) error
	MergeSessionIntoUser(ctx context.Context, userID, sessionToken string) error
}

// OrderService is the checkout surface the router needs.
type OrderService interface {
	Create(ctx context.Context, user *domain.User, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}

// ReviewService is the review surface the router needs.
type ReviewService interface {
	Create(ctx context.Context, user *domain.User, in reviewsvc.CreateInput) (*domain.Review, error)
	Update(ctx context.Context, user *domain.User, id string, in reviewsvc.UpdateInput) (*domain.Review, error)
	Delete(ctx context.Context, user *domain.User, id string) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) (*reviewsvc.ListResult, error)
}

// Deps carries the services the router exposes.
type Deps struct {
	Users    UserService
	Products ProductService
	Carts    CartService
	Orders   OrderService
	Reviews  ReviewService
}

// Options tunes cross-cutting router behavior.
type Options struct {
	CORSOrigins  []string
	CookieSecure bool
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = opts.CORSOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization", "X-Session-Cart-Id")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := handlers{deps: deps, logger: logger}

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.signup)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
	}

	products := api.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/latest", h.latestProducts)
		products.GET("/featured", h.featuredProducts)
		products.GET("/categories", h.listCategories)
		products.GET("/slug/:slug", h.getProductBySlug)
		products.GET("/:id", h.getProduct)
		products.GET("/:id/reviews", h.listReviews)

		adminProducts := products.Group("", authRequired(deps.Users), adminRequired())
		{
			adminProducts.POST("", h.createProduct)
			adminProducts.PUT("/:id", h.updateProduct)
			adminProducts.DELETE("/:id", h.deleteProduct)
		}
	}

	cart := api.Group("/cart", sessionCart(opts.CookieSecure), authOptional(deps.Users))
	{
		cart.GET("", h.getCart)
		cart.POST("/items", h.addCartItem)
		cart.PUT("/items/:productId", h.updateCartItem)
		cart.DELETE("/items/:productId", h.removeCartItem)
		cart.DELETE("", h.clearCart)
	}

	users := api.Group("/users", authRequired(deps.Users))
	{
		users.GET("/profile", h.getProfile)
		users.PUT("/profile", h.updateProfile)
		users.PUT("/address", h.updateAddress)
		users.PUT("/payment-method", h.updatePaymentMethod)

		adminUsers := users.Group("", adminRequired())
		{
			adminUsers.GET("", h.listUsers)
			adminUsers.GET("/:id", h.getUser)
			adminUsers.PUT("/:id", h.updateUser)
			adminUsers.DELETE("/:id", h.deleteUser)
		}
	}

	orders := api.Group("/orders", authRequired(deps.Users))
	{
		orders.POST("", h.createOrder)
		orders.GET("/mine", h.listMyOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/pay", h.payOrder)

		adminOrders := orders.Group("", adminRequired())
		{
			adminOrders.GET("", h.listAllOrders)
			adminOrders.PUT("/:id/deliver", h.deliverOrder)
		}
	}

	reviews := api.Group("/reviews", authRequired(deps.Users))
	{
		reviews.POST("", h.createReview)
		reviews.PUT("/:id", h.updateReview)
		reviews.DELETE("/:id", h.deleteReview)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
