package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/mbvogue/storefront/internal/application/cart"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/infrastructure/cache"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
	"github.com/mbvogue/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

type cartFixture struct {
	engine   *gin.Engine
	carts    *testutil.MockCartRepository
	variants *testutil.MockVariantRepository
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:    new(testutil.MockCartRepository),
		variants: new(testutil.MockVariantRepository),
	}
	svc := appcart.NewService(f.carts, cache.NewInMemorySessionCartStore(time.Hour), f.variants, nil)
	h := NewCartHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sid := c.GetHeader(middleware.SessionHeader); sid != "" {
			c.Set(middleware.SessionContextKey, sid)
		}
		if uid := c.GetHeader(testUserHeader); uid != "" {
			c.Set(middleware.JWTUserIDKey, uid)
		}
		c.Next()
	})
	r.GET("/cart", h.Get)
	r.GET("/cart/summary", h.Summary)
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items/:variant_id", h.UpdateItem)
	r.DELETE("/cart/items/:variant_id", h.RemoveItem)
	f.engine = r
	return f
}

func (f *cartFixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	return testutil.ServeJSON(f.engine, method, path, body, headers)
}

func stockedVariant(stock int, price int64) *catalog.Variant {
	p := &catalog.Product{Name: "Kente Wrap Dress", Slug: "kente-wrap-dress", Price: decimal.NewFromInt(price), Available: true}
	p.ID = uuid.New()
	v := &catalog.Variant{ProductID: p.ID, Size: "M", Color: "Black", Stock: stock, Product: p}
	v.ID = uuid.New()
	return v
}

func TestCartHandler_SessionCart(t *testing.T) {
	f := newCartFixture()
	v := stockedVariant(5, 250)
	f.variants.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	f.variants.On("FindByIDs", mock.Anything, []uuid.UUID{v.ID}).Return([]catalog.Variant{*v}, nil)
	session := map[string]string{middleware.SessionHeader: "5f2b8c0d9e1a4b3c8d7e6f5a4b3c2d1e"}

	w := f.do(http.MethodPost, "/cart/items", `{"variant_id":"`+v.ID.String()+`","quantity":2}`, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	added := testutil.DecodeData[appcart.MutationResponse](t, w)
	assert.Equal(t, cart.OutcomeAdded, added.Outcome)
	assert.Equal(t, 2, added.Summary.TotalItems)
	assert.True(t, decimal.NewFromInt(500).Equal(added.Summary.TotalPrice))

	w = f.do(http.MethodGet, "/cart", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	got := testutil.DecodeData[appcart.Response](t, w)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Kente Wrap Dress", got.Items[0].ProductName)

	// a different session sees an empty cart
	w = f.do(http.MethodGet, "/cart/summary", "", map[string]string{middleware.SessionHeader: "other"})
	assert.Zero(t, testutil.DecodeData[appcart.Summary](t, w).TotalItems)

	f.carts.AssertNotCalled(t, "FindItems", mock.Anything, mock.Anything)
}

func TestCartHandler_UserCart(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	v := stockedVariant(3, 120)
	f.carts.On("FindItems", mock.Anything, userID).Return([]cart.Item{
		{VariantID: v.ID, Quantity: 3, Variant: v},
	}, nil)

	w := f.do(http.MethodGet, "/cart", "", map[string]string{
		testUserHeader:           userID.String(),
		middleware.SessionHeader: "ignored-when-logged-in",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data appcart.Response `json:"data"`
	}
	decodeInto(t, w, &got)
	assert.Equal(t, 3, got.Data.TotalItems)
	assert.True(t, decimal.NewFromInt(360).Equal(got.Data.TotalPrice))
	f.carts.AssertExpectations(t)
}

func TestCartHandler_BadRequests(t *testing.T) {
	f := newCartFixture()
	session := map[string]string{middleware.SessionHeader: "s1"}

	w := f.do(http.MethodPost, "/cart/items", `{"variant_id":"`+uuid.NewString()+`","quantity":0}`, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)

	w = f.do(http.MethodPut, "/cart/items/not-a-uuid", `{"quantity":1}`, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w).Error.Code)

	f.variants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
