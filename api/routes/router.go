package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kushal-prime/kushalwearback/api/controllers"
	"github.com/Kushal-prime/kushalwearback/api/middleware"
	"github.com/Kushal-prime/kushalwearback/internal/auth"
	"github.com/Kushal-prime/kushalwearback/internal/cart"
	"github.com/Kushal-prime/kushalwearback/internal/orders"
	"github.com/Kushal-prime/kushalwearback/internal/products"
	"github.com/Kushal-prime/kushalwearback/internal/wishlist"
	authpkg "github.com/Kushal-prime/kushalwearback/pkg/auth"
	"github.com/Kushal-prime/kushalwearback/pkg/config"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
	"github.com/Kushal-prime/kushalwearback/pkg/metrics"
	"github.com/Kushal-prime/kushalwearback/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Tokens   *authpkg.TokenManager
	Auth     *auth.Service
	Products *products.Service
	Cart     *cart.Service
	Wishlist *wishlist.Service
	Orders   *orders.Service
}

// NewRouter assembles the full route tree with its middleware stack.
func NewRouter(params RouterParams) http.Handler {
	logg := params.Logger
	rateLimiter := middleware.NewAuthRateLimiter(params.Redis, params.Config.AuthRateLimit, logg)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS(params.Config.CORS))

	r.Get("/health", controllers.Health(params.DB, params.Redis))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimiter.LimitSignup).Post("/signup", controllers.Signup(params.Auth, logg))
			r.With(rateLimiter.LimitLogin).Post("/login", controllers.Login(params.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(params.Tokens, logg))
				r.Post("/logout", controllers.Logout())
				r.Get("/me", controllers.Me(params.Auth, logg))
				r.Put("/profile", controllers.UpdateProfile(params.Auth, logg))
				r.Post("/change-password", controllers.ChangePassword(params.Auth, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(params.Products, logg))
			r.Get("/featured", controllers.FeaturedProducts(params.Products, logg))
			r.Get("/search", controllers.SearchProducts(params.Products, logg))
			r.Get("/categories/{category}", controllers.ProductsByCategory(params.Products, logg))
			r.Get("/{id}", controllers.GetProduct(params.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(params.Tokens, logg))
				r.Post("/{id}/review", controllers.AddReview(params.Products, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(params.Tokens, logg))
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Post("/", controllers.CreateProduct(params.Products, logg))
				r.Put("/{id}", controllers.UpdateProduct(params.Products, logg))
				r.Delete("/{id}", controllers.DeleteProduct(params.Products, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Auth(params.Tokens, logg))
			r.Get("/", controllers.GetCart(params.Cart, logg))
			r.Get("/count", controllers.CartCount(params.Cart, logg))
			r.Post("/", controllers.AddCartItem(params.Cart, logg))
			r.Put("/{itemId}", controllers.UpdateCartItem(params.Cart, logg))
			r.Delete("/{itemId}", controllers.RemoveCartItem(params.Cart, logg))
			r.Delete("/", controllers.ClearCart(params.Cart, logg))
			r.Post("/merge", controllers.MergeCart(params.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.Auth(params.Tokens, logg))
			r.Get("/", controllers.GetWishlist(params.Wishlist, logg))
			r.Post("/add", controllers.AddWishlistItem(params.Wishlist, logg))
			r.Delete("/remove/{productId}", controllers.RemoveWishlistItem(params.Wishlist, logg))
			r.Delete("/clear", controllers.ClearWishlist(params.Wishlist, logg))
			r.Get("/check/{productId}", controllers.CheckWishlist(params.Wishlist, logg))
			r.Post("/move-to-cart/{productId}", controllers.MoveWishlistItemToCart(params.Wishlist, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Auth(params.Tokens, logg))
			r.Post("/", controllers.CreateOrder(params.Orders, logg))
			r.Get("/my-orders", controllers.MyOrders(params.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(params.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Get("/", controllers.ListOrders(params.Orders, logg))
				r.Put("/{id}/status", controllers.UpdateOrderStatus(params.Orders, logg))
				r.Get("/stats/summary", controllers.OrderStats(params.Orders, logg))
			})
		})
	})

	return r
}
