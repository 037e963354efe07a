package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relo/internal/config"
	"relo/internal/http/handlers"
	"relo/internal/modules/pricing"
)

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog, err := pricing.DefaultCatalog()
	require.NoError(t, err)
	svc := pricing.NewService(catalog, config.PricingConfig{MaxTableKm: 1000, Currency: "ZAR"}, nil)

	r := gin.New()
	h := handlers.NewPricingHandler(svc)
	r.POST("/pricing/estimate", h.Estimate)
	r.GET("/pricing/vehicle-classes", h.VehicleClasses)
	r.GET("/pricing/distance-bands", h.DistanceBands)
	r.GET("/pricing/extras", h.Extras)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type estimateBody struct {
	Distance       float64 `json:"distance"`
	VehicleClassID string  `json:"vehicleClassId"`
	Band           struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"band"`
	PriceBreakdown struct {
		BaseFare float64            `json:"baseFare"`
		Extras   map[string]float64 `json:"extras"`
		Total    float64            `json:"total"`
		Currency string             `json:"currency"`
	} `json:"priceBreakdown"`
}

func decodeEstimate(t *testing.T, w *httptest.ResponseRecorder) estimateBody {
	t.Helper()
	var body estimateBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestEstimate_Priced(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/pricing/estimate", map[string]any{
		"vehicleClassId": "1-ton-truck",
		"distance":       8,
		"extraServices": map[string]any{
			"loading":       true,
			"loadingPeople": 2,
			"stairs":        2,
			"packing":       true,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeEstimate(t, w)
	assert.Equal(t, 8.0, body.Distance)
	assert.Equal(t, "5-10", body.Band.ID)
	assert.Equal(t, "5–10km", body.Band.Label)
	assert.Equal(t, 850.0, body.PriceBreakdown.BaseFare)
	assert.Equal(t, 700.0, body.PriceBreakdown.Extras["loading"])
	assert.Equal(t, 300.0, body.PriceBreakdown.Extras["stairs"])
	assert.Equal(t, 200.0, body.PriceBreakdown.Extras["packing"])
	assert.Equal(t, 0.0, body.PriceBreakdown.Extras["cleaning"])
	assert.Len(t, body.PriceBreakdown.Extras, 7)
	assert.Equal(t, 2050.0, body.PriceBreakdown.Total)
	assert.Equal(t, "ZAR", body.PriceBreakdown.Currency)
}

func TestEstimate_Insurance(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/pricing/estimate", map[string]any{
		"vehicleClassId": "mini-van",
		"distance":       3,
		"extraServices":  map[string]any{"insurance": true, "insuranceValue": 10000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeEstimate(t, w)
	assert.Equal(t, 500.0, body.PriceBreakdown.Extras["insurance"])
	assert.Equal(t, 1150.0, body.PriceBreakdown.Total)
}

func TestEstimate_FromCoordinates(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/pricing/estimate", map[string]any{
		"vehicleClassId":  "mini-van",
		"pickupLocation":  map[string]any{"lat": -26.2041, "lng": 28.0473},
		"dropoffLocation": map[string]any{"lat": -25.7479, "lng": 28.2293},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeEstimate(t, w)
	assert.InDelta(t, 54, body.Distance, 3)
	assert.Equal(t, "50-100", body.Band.ID)
}

func TestEstimate_CustomQuote(t *testing.T) {
	r := buildTestRouter(t)
	cases := map[string]map[string]any{
		"beyond table": {"vehicleClassId": "mini-van", "distance": 1500},
		"at table edge": {"vehicleClassId": "mini-van", "distance": 1000},
		"cape town to johannesburg": {
			"vehicleClassId":  "mini-van",
			"pickupLocation":  map[string]any{"lat": -33.9249, "lng": 18.4241},
			"dropoffLocation": map[string]any{"lat": -26.2041, "lng": 28.0473},
		},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/pricing/estimate", payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, true, body["requiresCustomQuote"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestEstimate_Errors(t *testing.T) {
	r := buildTestRouter(t)
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"missing vehicle class", map[string]any{"distance": 3}, http.StatusBadRequest},
		{"missing distance and locations", map[string]any{"vehicleClassId": "mini-van"}, http.StatusBadRequest},
		{"only pickup", map[string]any{"vehicleClassId": "mini-van", "pickupLocation": map[string]any{"lat": 1, "lng": 1}}, http.StatusBadRequest},
		{"negative distance", map[string]any{"vehicleClassId": "mini-van", "distance": -4}, http.StatusBadRequest},
		{"bad latitude", map[string]any{"vehicleClassId": "mini-van", "pickupLocation": map[string]any{"lat": 120, "lng": 1}, "dropoffLocation": map[string]any{"lat": 1, "lng": 1}}, http.StatusBadRequest},
		{"negative stairs", map[string]any{"vehicleClassId": "mini-van", "distance": 3, "extraServices": map[string]any{"stairs": -1}}, http.StatusBadRequest},
		{"unknown vehicle class", map[string]any{"vehicleClassId": "spaceship", "distance": 3}, http.StatusNotFound},
		{"empty body", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/pricing/estimate", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotContains(t, body, "requiresCustomQuote")
		})
	}
}

func TestReferenceEndpoints(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodGet, "/pricing/vehicle-classes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var classes struct {
		VehicleClasses []pricing.VehicleClass `json:"vehicleClasses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &classes))
	assert.Len(t, classes.VehicleClasses, 5)

	w = doRequest(r, http.MethodGet, "/pricing/distance-bands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bands struct {
		DistanceBands []pricing.DistanceBand `json:"distanceBands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bands))
	assert.Len(t, bands.DistanceBands, 9)
	assert.Nil(t, bands.DistanceBands[8].MaxKm)

	w = doRequest(r, http.MethodGet, "/pricing/extras", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var extras struct {
		ExtraServices []pricing.ExtraServiceDefinition `json:"extraServices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &extras))
	assert.Len(t, extras.ExtraServices, len(pricing.AllExtras))
}
