package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/nexcart/nexcart-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	products := []models.Product{
		{Name: "Alpha Phone", Description: "A phone", Price: decimal.NewFromInt(300), StockQuantity: 10, Category: "Phones", Brand: "Acme", Active: boolPtr(true)},
		{Name: "Beta Phone", Description: "Another phone", Price: decimal.NewFromInt(600), StockQuantity: 10, Category: "Phones", Brand: "Globex", Active: boolPtr(true)},
		{Name: "Gamma Laptop", Description: "A laptop", Price: decimal.NewFromInt(1200), StockQuantity: 5, Category: "Laptops", Brand: "Acme", Active: boolPtr(true)},
		{Name: "Hidden Gadget", Description: "Retired", Price: decimal.NewFromInt(50), StockQuantity: 0, Category: "Phones", Brand: "Acme", Active: boolPtr(false)},
	}
	for i := range products {
		if result := db.Create(&products[i]); result.Error != nil {
			t.Fatalf("Failed to seed product: %v", result.Error)
		}
	}
}

func TestGetProductsFiltersAndPagination(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()
	seedCatalog(t, db)

	recorder := performRequest(t, router, http.MethodGet, "/products", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if products := body["products"].([]any); len(products) != 3 {
		t.Errorf("Expected 3 active products, got %d", len(products))
	}

	recorder = performRequest(t, router, http.MethodGet, "/products?category=Phones", nil, "")
	body = decodeBody(t, recorder)
	if products := body["products"].([]any); len(products) != 2 {
		t.Errorf("Expected 2 phones, got %d", len(products))
	}

	recorder = performRequest(t, router, http.MethodGet, "/products?minPrice=500&maxPrice=1000", nil, "")
	body = decodeBody(t, recorder)
	products := body["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("Expected 1 product in price range, got %d", len(products))
	}
	if name := products[0].(map[string]any)["name"]; name != "Beta Phone" {
		t.Errorf("Expected Beta Phone, got %v", name)
	}

	recorder = performRequest(t, router, http.MethodGet, "/products?page=1&limit=2&sortBy=price&sortDir=desc", nil, "")
	body = decodeBody(t, recorder)
	products = body["products"].([]any)
	if len(products) != 2 {
		t.Fatalf("Expected page of 2 products, got %d", len(products))
	}
	if name := products[0].(map[string]any)["name"]; name != "Gamma Laptop" {
		t.Errorf("Expected most expensive product first, got %v", name)
	}
	metadata := body["metadata"].(map[string]any)
	if total, _ := metadata["total"].(float64); total != 3 {
		t.Errorf("Expected total 3, got %v", metadata["total"])
	}
	if hasNext, _ := metadata["hasNextPage"].(bool); !hasNext {
		t.Error("Expected hasNextPage true on first of two pages")
	}
}

func TestSearchProducts(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()
	seedCatalog(t, db)

	recorder := performRequest(t, router, http.MethodGet, "/products/search?query=laptop", nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	products := body["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(products))
	}
	if name := products[0].(map[string]any)["name"]; name != "Gamma Laptop" {
		t.Errorf("Expected Gamma Laptop, got %v", name)
	}
}

func TestGetCategoriesAndBrands(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()
	seedCatalog(t, db)

	recorder := performRequest(t, router, http.MethodGet, "/products/categories", nil, "")
	body := decodeBody(t, recorder)
	categories := body["categories"].([]any)
	if len(categories) != 2 {
		t.Errorf("Expected 2 categories from active products, got %v", categories)
	}

	recorder = performRequest(t, router, http.MethodGet, "/products/brands", nil, "")
	body = decodeBody(t, recorder)
	brands := body["brands"].([]any)
	if len(brands) != 2 {
		t.Errorf("Expected 2 brands from active products, got %v", brands)
	}
}

func TestGetProduct(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	product := createTestProduct(t, db, "Solo Item", 15.50, 3)

	recorder := performRequest(t, router, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body["name"] != "Solo Item" {
		t.Errorf("Expected name Solo Item, got %v", body["name"])
	}

	recorder = performRequest(t, router, http.MethodGet, "/products/99999", nil, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404 for missing product, got %d", recorder.Code)
	}
}

func TestCreateProductActiveFlag(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	_, adminToken := createTestUser(t, db, "lifecycleadmin@example.com", "admin")

	recorder := performRequest(t, router, http.MethodPost, "/products", map[string]any{
		"name": "Visible Item", "price": "10.00", "stockQuantity": 5,
	}, adminToken)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = performRequest(t, router, http.MethodPost, "/products", map[string]any{
		"name": "Retired Item", "price": "10.00", "stockQuantity": 5, "active": false,
	}, adminToken)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var visible, retired models.Product
	db.Where("name = ?", "Visible Item").First(&visible)
	db.Where("name = ?", "Retired Item").First(&retired)

	if visible.Active == nil || !*visible.Active {
		t.Error("Omitted active flag must default to true")
	}
	if retired.Active == nil || *retired.Active {
		t.Error("Explicit active=false must be stored, not overridden by the column default")
	}

	recorder = performRequest(t, router, http.MethodGet, "/products", nil, "")
	body := decodeBody(t, recorder)
	products := body["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("Expected only the active product in the listing, got %d", len(products))
	}
	if name := products[0].(map[string]any)["name"]; name != "Visible Item" {
		t.Errorf("Expected Visible Item, got %v", name)
	}
}

func TestProductAdminAccess(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	_, userToken := createTestUser(t, db, "shopper@example.com", "user")
	_, adminToken := createTestUser(t, db, "catalogadmin@example.com", "admin")

	payload := map[string]any{"name": "New Thing", "price": "49.99", "stockQuantity": 5}

	recorder := performRequest(t, router, http.MethodPost, "/products", payload, "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 without token, got %d", recorder.Code)
	}

	recorder = performRequest(t, router, http.MethodPost, "/products", payload, userToken)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403 for non-admin, got %d", recorder.Code)
	}

	recorder = performRequest(t, router, http.MethodPost, "/products", payload, adminToken)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 for admin, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var product models.Product
	if err := db.Where("name = ?", "New Thing").First(&product).Error; err != nil {
		t.Fatalf("Product should exist: %v", err)
	}

	recorder = performRequest(t, router, http.MethodPatch, fmt.Sprintf("/products/%d/stock", product.ID), map[string]any{
		"stockQuantity": 42,
	}, adminToken)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Stock update: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	db.First(&product, product.ID)
	if product.StockQuantity != 42 {
		t.Errorf("Expected stock 42, got %d", product.StockQuantity)
	}
}
