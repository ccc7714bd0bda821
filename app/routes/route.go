package routes

import (
	"net/http"
	"strconv"

	"github.com/cetak3d/go-printshop/app/configs"
	"github.com/cetak3d/go-printshop/app/handlers"
	"github.com/cetak3d/go-printshop/app/middlewares"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/services"
	"github.com/cetak3d/go-printshop/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, sessionStore sessions.SessionStore, keys *configs.SessionKeys) *mux.Router {
	renderer := render.New()

	userRepo := repositories.NewUserRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	priceRuleRepo := repositories.NewPriceRuleRepository(db)
	tempFileRepo := repositories.NewTempFileRepository(db)
	userFileRepo := repositories.NewUserFileRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	historyRepo := repositories.NewStatusHistoryRepository(db)
	jobRepo := repositories.NewOrderFileJobRepository(db)

	slicerClient := services.NewSlicerClient(configs.LoadENV.SUPERSLICE_API_URL)
	shippingClient := services.NewKomerceShippingClient(configs.LoadENV.API_ONGKIR_BASE_URL, configs.LoadENV.API_ONGKIR_KEY)
	originID, _ := strconv.Atoi(configs.LoadENV.API_ONGKIR_ORIGIN)
	rateResolver := services.NewShippingRateResolver(shippingClient, originID)

	mailer := services.NewMailer(services.MailConfig{
		Host:     configs.LoadENV.EmailHost,
		Port:     configs.LoadENV.EmailPort,
		Username: configs.LoadENV.EmailUsername,
		Password: configs.LoadENV.EmailPassword,
		From:     configs.LoadENV.EmailFrom,
	})

	pricingSvc := services.NewPricingService(priceRuleRepo)
	orderSvc := services.NewOrderService(db, orderRepo, historyRepo)
	paymentSvc := services.NewPaymentService(db, orderRepo, orderSvc, mailer)
	checkoutSvc := services.NewCheckoutService(db, userRepo, addressRepo, priceRuleRepo, orderRepo, orderItemRepo, historyRepo, jobRepo, paymentSvc)

	authHandler := handlers.NewAuthHandler(renderer, userRepo, sessionStore)
	addressHandler := handlers.NewAddressHandler(renderer, addressRepo)
	fileHandler := handlers.NewFileHandler(renderer, tempFileRepo, userFileRepo)
	quoteHandler := handlers.NewQuoteHandler(renderer, slicerClient, pricingSvc, tempFileRepo)
	shippingHandler := handlers.NewShippingHandler(renderer, shippingClient, rateResolver)
	orderHandler := handlers.NewOrderHandler(renderer, orderRepo, checkoutSvc, orderSvc)
	paymentHandler := handlers.NewPaymentHandler(renderer, orderRepo, paymentSvc)

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middlewares.SessionUserMiddleware(sessionStore, userRepo))

	// Public surface. Uploads, slicing and shipping quotes are usable before
	// login so the checkout wizard can start anonymously.
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/files/temp", fileHandler.UploadTemp).Methods("POST")
	api.HandleFunc("/files/temp/retrieve", fileHandler.RetrieveTemp).Methods("POST")
	api.HandleFunc("/files/temp/delete", fileHandler.DeleteTemp).Methods("POST")

	api.HandleFunc("/quote/slice", quoteHandler.Slice).Methods("POST")
	api.HandleFunc("/quote/price", quoteHandler.Price).Methods("POST")

	api.HandleFunc("/shipping/destinations", shippingHandler.SearchDestinations).Methods("GET")
	api.HandleFunc("/shipping/cost", shippingHandler.CalculateCost).Methods("POST")

	// Midtrans calls this server-to-server. It authenticates with the payload
	// signature, not a session, so it stays outside the protected subrouters.
	api.HandleFunc("/payment/notification", paymentHandler.Notification).Methods("POST")

	csrfMiddleware := csrf.Protect(
		keys.AuthKey,
		csrf.Secure(configs.LoadENV.APP_ENV == "production"),
		csrf.Path("/"),
	)

	authAPI := api.PathPrefix("").Subrouter()
	authAPI.Use(csrfMiddleware)
	authAPI.Use(middlewares.RequireAuth(renderer))

	authAPI.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		renderer.JSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
	}).Methods("GET")

	authAPI.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/auth/me", authHandler.UpdateProfile).Methods("PUT")

	authAPI.HandleFunc("/addresses", addressHandler.List).Methods("GET")
	authAPI.HandleFunc("/addresses", addressHandler.Create).Methods("POST")
	authAPI.HandleFunc("/addresses/{id}", addressHandler.Update).Methods("PUT")
	authAPI.HandleFunc("/addresses/{id}", addressHandler.Delete).Methods("DELETE")

	authAPI.HandleFunc("/files/user", fileHandler.ListUserFiles).Methods("GET")
	authAPI.HandleFunc("/files/user/{id}", fileHandler.GetUserFile).Methods("GET")

	authAPI.HandleFunc("/orders", orderHandler.Create).Methods("POST")
	authAPI.HandleFunc("/orders", orderHandler.List).Methods("GET")
	authAPI.HandleFunc("/orders/{id}", orderHandler.Detail).Methods("GET")

	authAPI.HandleFunc("/payment/initialize", paymentHandler.Initialize).Methods("POST")
	authAPI.HandleFunc("/payment/verify", paymentHandler.Verify).Methods("POST")

	adminAPI := api.PathPrefix("").Subrouter()
	adminAPI.Use(csrfMiddleware)
	adminAPI.Use(middlewares.RequireAuth(renderer))
	adminAPI.Use(middlewares.RequireAdmin(renderer))

	adminAPI.HandleFunc("/orders/{id}/status", orderHandler.UpdateStatus).Methods("PATCH")
	adminAPI.HandleFunc("/orders/{id}/tracking", orderHandler.UpdateTracking).Methods("PATCH")

	return router
}
