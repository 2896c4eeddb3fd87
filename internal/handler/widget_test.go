package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plzform/internal/directory"
	"plzform/internal/handler"
	"plzform/internal/session"
	"plzform/internal/widget"
)

const testDelay = 15 * time.Millisecond

type fixture struct {
	t       *testing.T
	handler *handler.WidgetHandler
	cookie  *http.Cookie
}

func newFixture(t *testing.T, client directory.Client) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := session.NewStore(session.Config{
		TTL:    time.Minute,
		Logger: logger,
		Factory: func() *widget.Validator {
			return widget.New(widget.Config{Client: client, Delay: testDelay, Logger: logger})
		},
	})
	t.Cleanup(store.Close)

	renderer, err := handler.NewRenderer("../../web/templates", logger)
	require.NoError(t, err)

	return &fixture{
		t:       t,
		handler: handler.NewWidgetHandler(store, renderer, logger),
	}
}

func (f *fixture) do(method, target, value string, h http.HandlerFunc) *httptest.ResponseRecorder {
	f.t.Helper()

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(url.Values{"value": {value}}.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	w := httptest.NewRecorder()
	h(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == handler.SessionCookie {
			f.cookie = c
		}
	}
	return w
}

func (f *fixture) waitForState(substr string) string {
	f.t.Helper()

	var body string
	require.Eventually(f.t, func() bool {
		w := f.do(http.MethodGet, "/widget/state", "", f.handler.State)
		body = w.Body.String()
		return strings.Contains(body, substr)
	}, 2*time.Second, 5*time.Millisecond)
	return body
}

func TestFormPage_SetsSessionCookie(t *testing.T) {
	f := newFixture(t, &directory.Mock{})

	w := f.do(http.MethodGet, "/", "", f.handler.FormPage)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Adresse prüfen")
	require.NotNil(t, f.cookie, "first visit must establish a session")
	assert.True(t, f.cookie.HttpOnly)
}

func TestFormPage_ReusesExistingSession(t *testing.T) {
	f := newFixture(t, &directory.Mock{})

	f.do(http.MethodGet, "/", "", f.handler.FormPage)
	first := f.cookie.Value

	w := f.do(http.MethodGet, "/", "", f.handler.FormPage)
	assert.Equal(t, first, f.cookie.Value)
	assert.Empty(t, matchingCookies(w, handler.SessionCookie), "no new cookie for a known session")
}

func matchingCookies(w *httptest.ResponseRecorder, name string) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func TestLocalityEdit_RendersSuccessState(t *testing.T) {
	client := &directory.Mock{
		SearchByNameFunc: func(ctx context.Context, name string) ([]directory.Locality, error) {
			return []directory.Locality{{Name: "Fürth", PostalCode: "90762"}}, nil
		},
	}
	f := newFixture(t, client)

	w := f.do(http.MethodPost, "/widget/locality", "Fürth", f.handler.Locality)
	require.Equal(t, http.StatusOK, w.Code)

	body := f.waitForState(`data-status="success"`)
	assert.Contains(t, body, `value="90762"`)
	assert.Contains(t, body, "Adresse gültig")
}

func TestLocalityEdit_MultipleCodesRenderDropdown(t *testing.T) {
	client := &directory.Mock{
		SearchByNameFunc: func(ctx context.Context, name string) ([]directory.Locality, error) {
			return []directory.Locality{
				{Name: "Berlin", PostalCode: "10115"},
				{Name: "Berlin", PostalCode: "10117"},
			}, nil
		},
	}
	f := newFixture(t, client)

	f.do(http.MethodPost, "/widget/locality", "Berlin", f.handler.Locality)

	body := f.waitForState("<select")
	assert.Contains(t, body, `<option value="10115">`)
	assert.Contains(t, body, `<option value="10117">`)
}

func TestSelect_RendersSuccessWithoutLookup(t *testing.T) {
	client := &directory.Mock{
		SearchByNameFunc: func(ctx context.Context, name string) ([]directory.Locality, error) {
			return []directory.Locality{
				{Name: "Berlin", PostalCode: "10115"},
				{Name: "Berlin", PostalCode: "10117"},
			}, nil
		},
	}
	f := newFixture(t, client)

	f.do(http.MethodPost, "/widget/locality", "Berlin", f.handler.Locality)
	f.waitForState("<select")

	w := f.do(http.MethodPost, "/widget/select", "10117", f.handler.Select)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-status="success"`)
	assert.Contains(t, body, `value="10117"`)
	assert.NotContains(t, body, "<select")
}

func TestPostalCodeEdit_InvalidCodeRendersError(t *testing.T) {
	client := &directory.Mock{
		SearchByPostalCodeFunc: func(ctx context.Context, code string) ([]directory.Locality, error) {
			return nil, nil
		},
	}
	f := newFixture(t, client)

	f.do(http.MethodPost, "/widget/postal-code", "00000", f.handler.PostalCode)

	body := f.waitForState(`data-status="error"`)
	assert.Contains(t, body, "invalid postal code")
}

func TestFieldInput_OverlongValueRejected(t *testing.T) {
	f := newFixture(t, &directory.Mock{})

	w := f.do(http.MethodPost, "/widget/locality", strings.Repeat("a", 150), f.handler.Locality)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelect_EmptyValueRejected(t *testing.T) {
	f := newFixture(t, &directory.Mock{})

	w := f.do(http.MethodPost, "/widget/select", "", f.handler.Select)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestState_IdleShowsNoStatusMessage(t *testing.T) {
	f := newFixture(t, &directory.Mock{})

	w := f.do(http.MethodGet, "/widget/state", "", f.handler.State)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-status="idle"`)
	assert.NotContains(t, body, "Adresse gültig")
	assert.NotContains(t, body, "Suche läuft")
}
