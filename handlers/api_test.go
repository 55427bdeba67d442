package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationrental/auth"
	"vacationrental/listings"
)

func TestAPIListings(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)

	id, err := app.Listings.CreateListing(context.Background(), auth.Session{Username: "alice"}, listings.Form{
		Title: "Treehouse", Description: "Up high", Location: "Oregon", Price: "80",
		PropertyType: "Treehouse", Accommodates: "2", Bedrooms: "1", Bathrooms: "0.5", Amenities: "view",
	})
	require.NoError(t, err)

	resp, body := c.get("/api/v1/listings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var list APIResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, "success", list.Status)
	items := list.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Treehouse", items[0].(map[string]any)["title"])

	resp, body = c.get("/api/v1/listings/" + strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var one APIResponse
	require.NoError(t, json.Unmarshal([]byte(body), &one))
	data := one.Data.(map[string]any)
	assert.Equal(t, "Oregon", data["location"])
	assert.Equal(t, 0.5, data["bathrooms"])
	assert.Equal(t, float64(id), data["id"])
}

func TestAPIListingNotFound(t *testing.T) {
	c := newTestClient(t, newTestApp(t))

	resp, body := c.get("/api/v1/listings/77")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out APIResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, "Property not found.", out.Message)
}

func TestSendJSONResponseUnencodable(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
	app.sendJSONResponse(w, r, http.StatusOK, APIResponse{Status: "success", Data: math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var out APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, "Something went wrong. Please try again later.", out.Message)
}
