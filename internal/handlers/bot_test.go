package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eonchat/server/internal/bot"
	"github.com/eonchat/server/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/bot/ask", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBotAskAnswersKnownTopic(t *testing.T) {
	h := NewBotHandler(bot.NewEngine(bot.DefaultKnowledgeBase()))
	c, rec := newBotTestContext(t, `{"question": "what is a graph"}`)

	require.NoError(t, h.Ask(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bot.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Text)
	assert.NotEmpty(t, resp.Options)
}

func TestBotAskRejectsEmptyQuestion(t *testing.T) {
	h := NewBotHandler(bot.NewEngine(bot.DefaultKnowledgeBase()))
	c, _ := newBotTestContext(t, `{}`)

	err := h.Ask(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
