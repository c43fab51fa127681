package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

type productsResponse struct {
	Items []domain.Product `json:"items"`
	Error string           `json:"error"`
}

func addToCart(t *testing.T, env *testEnv, tok, pid string, qty int) (int, itemsResponse) {
	t.Helper()
	status, body := env.do(t, "POST", "/api/cart/add", tok, map[string]any{"productId": pid, "quantity": qty})
	return status, decode[itemsResponse](t, body)
}

func TestCart_EmptyForNewUser(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, body := env.do(t, "GET", "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestCart_AddSameProductAccumulates(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, _ := addToCart(t, env, tok, "gbc-001", 2)
	require.Equal(t, http.StatusOK, status)
	status, res := addToCart(t, env, tok, "gbc-001", 3)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "gbc-001", res.Items[0].ProductID)
	assert.Equal(t, 5, res.Items[0].Quantity)
	require.NotNil(t, res.Items[0].Product)
	assert.Equal(t, int64(12999), res.Items[0].Product.Price)
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	addToCart(t, env, tok, "snes-001", 1)
	addToCart(t, env, tok, "gbc-001", 1)
	_, res := addToCart(t, env, tok, "snes-001", 1)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "snes-001", res.Items[0].ProductID)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, "gbc-001", res.Items[1].ProductID)
}

func TestCart_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, res := addToCart(t, env, tok, "", 1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "productId and quantity are required", res.Error)

	status, _ = addToCart(t, env, tok, "gbc-001", 0)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = addToCart(t, env, tok, "gbc-001", -2)
	assert.Equal(t, http.StatusBadRequest, status)

	status, res = addToCart(t, env, tok, "no-such-product", 1)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "product not found", res.Error)

	status, _ = addToCart(t, env, tok, "bad id!", 1)
	assert.Equal(t, http.StatusNotFound, status)

	// nothing above should have created a cart line
	_, body := env.do(t, "GET", "/api/cart", tok, nil)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestCart_RemoveLine(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token
	addToCart(t, env, tok, "gbc-001", 1)
	addToCart(t, env, tok, "nes-001", 2)

	status, body := env.do(t, "DELETE", "/api/cart/remove/gbc-001", tok, nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[itemsResponse](t, body)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "nes-001", res.Items[0].ProductID)
}

func TestCart_RemoveAbsentProductLeavesCartUnchanged(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token
	addToCart(t, env, tok, "gbc-001", 1)

	status, body := env.do(t, "DELETE", "/api/cart/remove/snes-001", tok, nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[itemsResponse](t, body)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "gbc-001", res.Items[0].ProductID)
}

func TestCart_RemoveWithoutCart(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, body := env.do(t, "DELETE", "/api/cart/remove/gbc-001", tok, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"cart not found","items":[]}`, string(body))
}

func TestCart_ShowsDeletedProductAsNull(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token
	addToCart(t, env, tok, "radio-001", 1)

	_, err := env.db.ExecContext(context.Background(), `DELETE FROM products WHERE id = ?`, "radio-001")
	require.NoError(t, err)

	status, body := env.do(t, "GET", "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[itemsResponse](t, body)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "radio-001", res.Items[0].ProductID)
	assert.Nil(t, res.Items[0].Product)
}

func TestCart_IsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "Ada", "ada@example.com").Token
	bob := env.register(t, "Bob", "bob@example.com").Token
	addToCart(t, env, ada, "gbc-001", 4)

	_, body := env.do(t, "GET", "/api/cart", bob, nil)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	for i := 0; i < 2; i++ {
		status, _ := env.do(t, "POST", "/api/wishlist/add", tok, map[string]string{"productId": "snes-001"})
		require.Equal(t, http.StatusOK, status)
	}
	env.do(t, "POST", "/api/wishlist/add", tok, map[string]string{"productId": "gbc-001"})

	status, body := env.do(t, "GET", "/api/wishlist", tok, nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[productsResponse](t, body)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "snes-001", res.Items[0].ID)
	assert.Equal(t, "gbc-001", res.Items[1].ID)
}

func TestWishlist_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, _ := env.do(t, "POST", "/api/wishlist/add", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/api/wishlist/add", tok, map[string]string{"productId": "ghost"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWishlist_Remove(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, body := env.do(t, "DELETE", "/api/wishlist/remove/gbc-001", tok, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"wishlist not found","items":[]}`, string(body))

	env.do(t, "POST", "/api/wishlist/add", tok, map[string]string{"productId": "gbc-001"})
	status, body = env.do(t, "DELETE", "/api/wishlist/remove/gbc-001", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"items":[]}`, string(body))

	// removing again is a no-op
	status, _ = env.do(t, "DELETE", "/api/wishlist/remove/gbc-001", tok, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCart_LineQuantityCapped(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "Ada", "ada@example.com").Token

	status, _ := addToCart(t, env, tok, "gbc-001", domain.MaxLineQuantity)
	require.Equal(t, http.StatusOK, status)

	status, res := addToCart(t, env, tok, "gbc-001", 1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, res.Error)

	status, _ = addToCart(t, env, tok, "nes-001", domain.MaxLineQuantity+1)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := env.do(t, "POST", "/api/cart/add", tok, map[string]any{"productId": "nes-001", "quantity": int64(9e18)})
	assert.Equal(t, http.StatusBadRequest, status, "body=%s", body)

	_, body = env.do(t, "GET", "/api/cart", tok, nil)
	items := decode[itemsResponse](t, body).Items
	require.Len(t, items, 1)
	assert.Equal(t, domain.MaxLineQuantity, items[0].Quantity)
}
