package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/follow", "/follow"},
		{"/leo/1?x=y", "/leo/1?x=y"},
		{"", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeNext(tt.target, "/"), tt.target)
	}
}

func TestUsernameFor(t *testing.T) {
	assert.Equal(t, "leo.tolstoy", usernameFor("leo.tolstoy@example.com", "uid123"))
	assert.Equal(t, "uid123", usernameFor("", "uid123"))
	assert.Equal(t, "user-ab", usernameFor("a b@example.com", "uid"))
}

func TestHTTPErrorHandler(t *testing.T) {
	log, hook := test.NewNullLogger()
	handler := HTTPErrorHandler(log)
	e := echo.New()

	serve := func(err error) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/leo/42", nil), rec)
		handler(err, c)
		return rec
	}

	rec := serve(echo.NewHTTPError(http.StatusNotFound, "Post not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"path":"/leo/42","error":"Post not found"}`, rec.Body.String())
	assert.Empty(t, hook.AllEntries())

	rec = serve(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "/leo/42", hook.LastEntry().Data["path"])
}

func TestRenderBlankForm(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/new", nil), rec)

	require.NoError(t, renderForm(c, http.StatusOK, map[string]string{"text": ""}, nil, echo.Map{"groups": []string{}}))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"form":{"text":""},"errors":{},"groups":[]}}`, string(body))
}
