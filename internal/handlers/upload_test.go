package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanstay/booking-service/internal/gateway"
	"github.com/oceanstay/booking-service/internal/mapping"
)

func setupValidateRouter(t *testing.T, maxBytes int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	Configure(gateway.New(nil, mapping.Default(), nil), nil, 2, maxBytes)

	router := gin.New()
	router.POST("/internal/imports/validate", ValidateImport)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestValidateEndpoint(t *testing.T) {
	router := setupValidateRouter(t, 0)

	csv := []byte("Tên khách,Ngày checkin,Ngày checkout,Số tiền\n" +
		"Nguyễn Văn A,15/10/2025,18/10/2025,1.500.000đ\n")

	body, contentType := multipartBody(t,
		map[string]string{"source": "offline", "channel": "facebook"},
		map[string][]byte{"bookings.csv": csv})

	req := httptest.NewRequest(http.MethodPost, "/internal/imports/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary gateway.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.ValidRows)
	assert.Equal(t, 0, summary.RowsInserted)
}

func TestValidateEndpointRejectsBadRequests(t *testing.T) {
	router := setupValidateRouter(t, 0)

	csv := []byte("Tên khách,Ngày checkin,Ngày checkout,Số tiền\nA,15/10/2025,18/10/2025,1.000.000đ\n")

	tests := []struct {
		name   string
		fields map[string]string
		files  map[string][]byte
	}{
		{
			name:   "unknown source",
			fields: map[string]string{"source": "fax", "channel": "facebook"},
			files:  map[string][]byte{"b.csv": csv},
		},
		{
			name:   "offline without channel",
			fields: map[string]string{"source": "offline"},
			files:  map[string][]byte{"b.csv": csv},
		},
		{
			name:   "no files",
			fields: map[string]string{"source": "offline", "channel": "zalo"},
			files:  map[string][]byte{},
		},
		{
			name: "malformed overrides",
			fields: map[string]string{
				"source": "offline", "channel": "zalo", "overrides": "{not json",
			},
			files: map[string][]byte{"b.csv": csv},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/internal/imports/validate", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestValidateEndpointEnforcesSizeLimit(t *testing.T) {
	router := setupValidateRouter(t, 16)

	csv := []byte("Tên khách,Ngày checkin,Ngày checkout,Số tiền\nA,15/10/2025,18/10/2025,1.000.000đ\n")

	body, contentType := multipartBody(t,
		map[string]string{"source": "offline", "channel": "facebook"},
		map[string][]byte{"big.csv": csv})

	req := httptest.NewRequest(http.MethodPost, "/internal/imports/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds maximum size")
}

// The overrides part is a room override table: listing free-text mapped to
// a canonical property short, winning over pattern parsing.
func TestValidateEndpointAppliesRoomOverrides(t *testing.T) {
	router := setupValidateRouter(t, 0)

	csv := []byte("Tên khách,Ngày checkin,Ngày checkout,Số tiền,Căn hộ\n" +
		"Nguyễn Văn A,15/10/2025,18/10/2025,1.500.000đ,Avalon D.5 - Sea view\n")

	body, contentType := multipartBody(t,
		map[string]string{
			"source":    "offline",
			"channel":   "facebook",
			"overrides": `{"mappings":{"Avalon D.5":"AVA-503"}}`,
		},
		map[string][]byte{"bookings.csv": csv})

	req := httptest.NewRequest(http.MethodPost, "/internal/imports/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary gateway.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Files, 1)
	require.NotEmpty(t, summary.Files[0].SampleRows)

	listing := summary.Files[0].SampleRows[0].Listing
	require.NotNil(t, listing)
	require.NotNil(t, listing.PropertyShort)
	assert.Equal(t, "AVA-503", *listing.PropertyShort)
}

func TestValidateEndpointDefaultsOfficialChannel(t *testing.T) {
	router := setupValidateRouter(t, 0)

	csv := []byte("Confirmation code,Guest name,Start date,Earnings\n" +
		"HM123,Jane Roe,2025-10-15,2500000\n")

	body, contentType := multipartBody(t,
		map[string]string{"source": "official"},
		map[string][]byte{"airbnb.csv": csv})

	req := httptest.NewRequest(http.MethodPost, "/internal/imports/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary gateway.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.ValidRows)
}
