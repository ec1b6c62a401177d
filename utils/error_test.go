package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestJSONError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reservations/x", nil)

	JSONError(c, http.StatusNotFound, "reservation not found", "id x")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "reservation not found" || body.Details != "id x" {
		t.Errorf("body = %+v", body)
	}

	// Details are optional.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/ai/chat", nil)
	JSONError(c, http.StatusBadRequest, "invalid chat payload")
	if w.Body.String() != `{"error":"invalid chat payload"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		panic("storage detail that must stay internal")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == "" || body.Details != "" {
		t.Errorf("body = %+v", body)
	}
	if body.Error == "storage detail that must stay internal" {
		t.Error("panic value leaked to the client")
	}
}
