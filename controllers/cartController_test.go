package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/nexcart/nexcart-api/models"
)

func TestAddToCartMergesDuplicateLines(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, db, "cart1@example.com", "user")
	product := createTestProduct(t, db, "Laptop", 999.99, 10)

	recorder := performRequest(t, router, http.MethodPost, "/cart", map[string]any{
		"productId": product.ID,
		"quantity":  2,
	}, token)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("First add: expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = performRequest(t, router, http.MethodPost, "/cart", map[string]any{
		"productId": product.ID,
		"quantity":  3,
	}, token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Second add: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var items []models.CartItem
	db.Where("product_id = ?", product.ID).Find(&items)
	if len(items) != 1 {
		t.Fatalf("Expected one merged cart line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, db, "cart2@example.com", "user")

	recorder := performRequest(t, router, http.MethodPost, "/cart", map[string]any{
		"productId": 9999,
		"quantity":  1,
	}, token)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
	if body := decodeBody(t, recorder); body["message"] != "Product not found" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
}

func TestCartOwnership(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	owner, _ := createTestUser(t, db, "owner@example.com", "user")
	_, intruderToken := createTestUser(t, db, "intruder@example.com", "user")
	product := createTestProduct(t, db, "Phone", 499.00, 10)

	item := models.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 1, Price: product.Price}
	if result := db.Create(&item); result.Error != nil {
		t.Fatalf("Failed to create cart item: %v", result.Error)
	}

	recorder := performRequest(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), map[string]any{
		"quantity": 5,
	}, intruderToken)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for foreign cart item, got %d", recorder.Code)
	}

	recorder = performRequest(t, router, http.MethodDelete, fmt.Sprintf("/cart/%d", item.ID), nil, intruderToken)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for foreign delete, got %d", recorder.Code)
	}

	var stored models.CartItem
	if err := db.First(&stored, item.ID).Error; err != nil {
		t.Fatal("Cart item should still exist")
	}
	if stored.Quantity != 1 {
		t.Errorf("Quantity should be unchanged, got %d", stored.Quantity)
	}
}

func TestCartCountAndTotal(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, db, "cart3@example.com", "user")
	cheap := createTestProduct(t, db, "Cable", 10.00, 100)
	pricey := createTestProduct(t, db, "Monitor", 250.00, 20)

	performRequest(t, router, http.MethodPost, "/cart", map[string]any{"productId": cheap.ID, "quantity": 3}, token)
	performRequest(t, router, http.MethodPost, "/cart", map[string]any{"productId": pricey.ID, "quantity": 1}, token)

	recorder := performRequest(t, router, http.MethodGet, "/cart/count", nil, token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Count: expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if count, _ := body["count"].(float64); count != 2 {
		t.Errorf("Expected count 2, got %v", body["count"])
	}

	recorder = performRequest(t, router, http.MethodGet, "/cart/total", nil, token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Total: expected status 200, got %d", recorder.Code)
	}
	body = decodeBody(t, recorder)
	if total, _ := body["total"].(string); total != "280" {
		t.Errorf("Expected total 280, got %v", body["total"])
	}
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter()

	user, token := createTestUser(t, db, "cart4@example.com", "user")
	keeper, _ := createTestUser(t, db, "keeper@example.com", "user")
	product := createTestProduct(t, db, "Keyboard", 80.00, 50)

	performRequest(t, router, http.MethodPost, "/cart", map[string]any{"productId": product.ID, "quantity": 2}, token)
	other := models.CartItem{UserID: keeper.ID, ProductID: product.ID, Quantity: 1, Price: product.Price}
	db.Create(&other)

	recorder := performRequest(t, router, http.MethodDelete, "/cart", nil, token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Clear: expected status 200, got %d", recorder.Code)
	}

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected empty cart, got %d items", count)
	}

	db.Model(&models.CartItem{}).Where("user_id = ?", keeper.ID).Count(&count)
	if count != 1 {
		t.Error("Clearing one cart must not touch another user's cart")
	}
}
