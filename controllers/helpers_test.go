package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/autoflow/autoflow_backend/models"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// newJSONContext builds an Echo context around a JSON request body.
func newJSONContext(e *echo.Echo, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setCaller(c echo.Context, caller *models.Caller) {
	c.Set("caller", caller)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// multipartBody builds a multipart request body with the given form fields and
// one image part per entry in files (name -> content).
func multipartBody(t *testing.T, fields map[string]string, files []fileSpec) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, file := range files {
		part, err := w.CreateFormFile("Images", file.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

type fileSpec struct {
	name    string
	content string
}

func validListingFields() map[string]string {
	return map[string]string{
		"Brand":       "Toyota",
		"Model":       "Corolla",
		"Year":        "2019",
		"Color":       "Blue",
		"Mileage":     "42000",
		"Engine":      "1.8L",
		"Price":       "15999.99",
		"Description": "Well maintained, one owner",
	}
}

func newMultipartContext(e *echo.Echo, target string, body *bytes.Buffer, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
