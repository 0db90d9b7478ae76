package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "abcd1234")

	AbortWithError(c, http.StatusForbidden, CodeForbidden, "nope")

	assert.True(t, c.IsAborted())
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeForbidden, resp.Error.Code)
	assert.Equal(t, "abcd1234", resp.Meta.RequestID)
}

func TestSuccessEnvelopeGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusOK, "ok", gin.H{"status": "healthy"})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Meta.RequestID, 8)
	assert.Nil(t, resp.Error)
}
