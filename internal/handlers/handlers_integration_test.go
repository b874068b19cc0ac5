package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"bookmarket/internal/handlers"
	"bookmarket/internal/middleware"
	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
	"bookmarket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// webhookSigningKey is the raw key behind webhookSecret; the webhook tests
// sign payloads with it the way the identity provider would.
var webhookSigningKey = []byte("integration-test-signing-key")

var webhookSecret = "whsec_" + base64.StdEncoding.EncodeToString(webhookSigningKey)

// seedData holds the users and books created by setupApp.
type seedData struct {
	seller      *models.User
	otherSeller *models.User
	buyer       *models.User
	calculus    *models.Book // seller, 5 in stock
	atlas       *models.Book // seller, 1 in stock
	novel       *models.Book // otherSeller, 3 in stock
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the way main does it. dbName keeps each test on
// its own shared-cache database.
func setupApp(dbName string) (*fiber.App, *seedData, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingUpdate{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	bookRepo := repositories.NewGORMBookRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	checkoutService := services.NewCheckoutService(orderRepo, bookRepo, userRepo, nil) // nil publisher: no broker in tests
	trackingService := services.NewTrackingService(orderRepo, userRepo, nil)
	bookService := services.NewBookService(bookRepo, userRepo)
	userService := services.NewUserService(userRepo)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewCheckoutHandler(checkoutService, trackingService).RegisterRoutes(api)
	handlers.NewOrderHandler(trackingService).RegisterRoutes(api)
	handlers.NewBookHandler(bookService).RegisterRoutes(api)
	handlers.NewUserHandler(userService).RegisterRoutes(api)
	handlers.NewWebhookHandler(userService).RegisterRoutes(api, middleware.VerifyClerkWebhook(webhookSecret))

	seed, err := seedMarketplace(userService, bookService)
	if err != nil {
		return nil, nil, err
	}
	return app, seed, nil
}

// seedMarketplace creates two sellers, a buyer, and three listings.
func seedMarketplace(users *services.UserService, books *services.BookService) (*seedData, error) {
	seller, err := users.UpsertUser(services.UpsertUserRequest{
		ClerkID:      "clerk-seller-1",
		Email:        "seller1@example.com",
		FirstName:    "Sam",
		UserType:     models.UserTypeSeller,
		BusinessName: "Second Story Books",
		Location:     &models.GeoPoint{Lng: -97.74, Lat: 30.27},
		Address:      &models.Address{City: "Austin", State: "TX"},
	})
	if err != nil {
		return nil, err
	}
	otherSeller, err := users.UpsertUser(services.UpsertUserRequest{
		ClerkID:      "clerk-seller-2",
		Email:        "seller2@example.com",
		FirstName:    "Olive",
		UserType:     models.UserTypeSeller,
		BusinessName: "Dusty Shelf",
	})
	if err != nil {
		return nil, err
	}
	buyer, err := users.UpsertUser(services.UpsertUserRequest{
		ClerkID:   "clerk-buyer-1",
		Email:     "buyer@example.com",
		FirstName: "Billie",
	})
	if err != nil {
		return nil, err
	}

	calculus, err := books.CreateBook(services.CreateBookRequest{
		Title:       "Calculus Made Easy",
		Author:      "Silvanus Thompson",
		Description: "Well-thumbed but intact",
		Subject:     models.SubjectMathematics,
		Condition:   models.ConditionGood,
		Price:       12.50,
		Quantity:    5,
		SellerID:    seller.ID,
	})
	if err != nil {
		return nil, err
	}
	atlas, err := books.CreateBook(services.CreateBookRequest{
		Title:       "World Atlas",
		Author:      "Various",
		Description: "A few dog-eared pages",
		Subject:     models.SubjectGeography,
		Condition:   models.ConditionFair,
		Price:       20.00,
		Quantity:    1,
		SellerID:    seller.ID,
	})
	if err != nil {
		return nil, err
	}
	novel, err := books.CreateBook(services.CreateBookRequest{
		Title:       "Middlemarch",
		Author:      "George Eliot",
		Description: "Paperback, spine creased",
		Subject:     models.SubjectLiterature,
		Condition:   models.ConditionLikeNew,
		Price:       8.00,
		Quantity:    3,
		SellerID:    otherSeller.ID,
	})
	if err != nil {
		return nil, err
	}

	return &seedData{
		seller:      seller,
		otherSeller: otherSeller,
		buyer:       buyer,
		calculus:    calculus,
		atlas:       atlas,
		novel:       novel,
	}, nil
}

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// doJSON runs a JSON request against the app and decodes the response body.
func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	assert.NoError(t, err)
	return resp.StatusCode, decoded
}

func TestCheckoutAndTrackingFlow(t *testing.T) {
	app, seed, err := setupApp("checkout_flow")
	assert.NoError(t, err)

	// Place an order for two titles from the same seller.
	status, body := doJSON(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"buyer_clerk_id": seed.buyer.ClerkID,
		"order_type":     "delivery",
		"items": []map[string]interface{}{
			{"book_id": seed.calculus.ID, "quantity": 2},
			{"book_id": seed.atlas.ID, "quantity": 1},
		},
		"delivery_address": map[string]string{
			"street": "1 Main St", "city": "Austin", "state": "TX", "zip_code": "78701",
		},
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	order := body["data"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Regexp(t, `^ORD-`, order["order_number"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, seed.seller.ID, order["seller_id"])
	assert.InDelta(t, 2*12.50+20.00, order["total_amount"].(float64), 0.001)
	assert.NotEmpty(t, order["estimated_delivery"])
	assert.Len(t, order["items"], 2)
	assert.Len(t, order["tracking_updates"], 1)

	// Stock went down; the single-copy atlas is now unavailable.
	status, body = doJSON(t, app, http.MethodGet, "/api/books/"+seed.atlas.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	atlas := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), atlas["quantity"])
	assert.Equal(t, false, atlas["available"])

	status, body = doJSON(t, app, http.MethodGet, "/api/books/"+seed.calculus.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	calculus := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), calculus["quantity"])
	assert.Equal(t, true, calculus["available"])

	// The order shows up for both parties.
	status, body = doJSON(t, app, http.MethodGet, "/api/orders/user/"+seed.buyer.ClerkID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/orders/seller/"+seed.seller.ClerkID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	// Advance the status along the delivery path.
	status, body = doJSON(t, app, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]interface{}{
		"status":              "confirmed",
		"updated_by_clerk_id": seed.seller.ClerkID,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", body["data"].(map[string]interface{})["status"])

	// A status the lifecycle does not allow from "confirmed".
	status, body = doJSON(t, app, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]interface{}{
		"status":              "delivered",
		"updated_by_clerk_id": seed.seller.ClerkID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	// A supplementary tracking note leaves the status alone.
	status, body = doJSON(t, app, http.MethodPost, "/api/orders/"+orderID+"/tracking", map[string]interface{}{
		"status":              "confirmed",
		"message":             "Books packed and labeled",
		"updated_by_clerk_id": seed.seller.ClerkID,
	})
	assert.Equal(t, http.StatusOK, status)
	updated := body["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", updated["status"])
	assert.Len(t, updated["tracking_updates"], 3)
}

func TestCheckoutRejections(t *testing.T) {
	app, seed, err := setupApp("checkout_rejections")
	assert.NoError(t, err)

	// More copies than the seller has.
	status, body := doJSON(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"buyer_clerk_id": seed.buyer.ClerkID,
		"items": []map[string]interface{}{
			{"book_id": seed.calculus.ID, "quantity": 6},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "only 5 copies")

	// Items from two different sellers in one cart.
	status, body = doJSON(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"buyer_clerk_id": seed.buyer.ClerkID,
		"items": []map[string]interface{}{
			{"book_id": seed.calculus.ID, "quantity": 1},
			{"book_id": seed.novel.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "same seller")

	// Unknown buyer.
	status, _ = doJSON(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"buyer_clerk_id": "clerk-nobody",
		"items": []map[string]interface{}{
			{"book_id": seed.calculus.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Rejected carts must not touch stock.
	status, body = doJSON(t, app, http.MethodGet, "/api/books/"+seed.calculus.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["data"].(map[string]interface{})["quantity"])
}

func TestBookQuantityOwnership(t *testing.T) {
	app, seed, err := setupApp("book_ownership")
	assert.NoError(t, err)

	// A different seller cannot restock someone else's listing.
	status, body := doJSON(t, app, http.MethodPut, "/api/books/"+seed.calculus.ID+"/quantity", map[string]interface{}{
		"quantity":  10,
		"seller_id": seed.otherSeller.ID,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, false, body["success"])

	// The owner can, even beyond the original quantity.
	status, body = doJSON(t, app, http.MethodPut, "/api/books/"+seed.calculus.ID+"/quantity", map[string]interface{}{
		"quantity":  10,
		"seller_id": seed.seller.ID,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(10), body["data"].(map[string]interface{})["quantity"])
}

func TestListBooksFilters(t *testing.T) {
	app, seed, err := setupApp("book_filters")
	assert.NoError(t, err)

	status, body := doJSON(t, app, http.MethodGet, "/api/books/?subject=Mathematics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	books := body["data"].([]interface{})
	assert.Equal(t, seed.calculus.ID, books[0].(map[string]interface{})["id"])

	status, body = doJSON(t, app, http.MethodGet, "/api/books/?maxPrice=10", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	// The second seller never set a location, so a distance cut around
	// Austin drops their listing.
	status, body = doJSON(t, app, http.MethodGet, "/api/books/?lat=30.27&lng=-97.74&radius=50", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
}

// signWebhook produces the svix signature headers for a payload.
func signWebhook(payload []byte) (id, timestamp, signature string) {
	id = "msg_integration_test"
	timestamp = strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, webhookSigningKey)
	fmt.Fprintf(mac, "%s.%s.%s", id, timestamp, payload)
	signature = "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return id, timestamp, signature
}

func TestClerkWebhook(t *testing.T) {
	app, _, err := setupApp("clerk_webhook")
	assert.NoError(t, err)

	payload, _ := json.Marshal(map[string]interface{}{
		"type": "user.created",
		"data": map[string]interface{}{
			"id":              "clerk-webhook-user",
			"email_addresses": []map[string]string{{"email_address": "hook@example.com"}},
			"first_name":      "Hari",
			"last_name":       "Seldon",
		},
	})

	// Without a valid signature the event is rejected before processing.
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	status, _ := doJSON(t, app, http.MethodGet, "/api/users/clerk-webhook-user", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// A properly signed event creates the user.
	id, timestamp, signature := signWebhook(payload)
	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", id)
	req.Header.Set("svix-timestamp", timestamp)
	req.Header.Set("svix-signature", signature)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	status, body := doJSON(t, app, http.MethodGet, "/api/users/clerk-webhook-user", nil)
	assert.Equal(t, http.StatusOK, status)
	user := body["data"].(map[string]interface{})
	assert.Equal(t, "hook@example.com", user["email"])
	assert.Equal(t, "buyer", user["user_type"])
}
