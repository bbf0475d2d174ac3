package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/musicai/internal/models"
)

type fakeExchanger struct {
	credential models.UserCredential
	err        error
	codes      []string
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code string) (models.UserCredential, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return models.UserCredential{}, f.err
	}
	return f.credential, nil
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Successful Callback", func(t *testing.T) {
		exchanger := &fakeExchanger{credential: models.UserCredential{AccessToken: "user_token", RefreshToken: "refresh"}}
		handler := NewOAuthHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if len(exchanger.codes) != 1 || exchanger.codes[0] != "authcode" {
			t.Errorf("expected exchange with authcode, got %v", exchanger.codes)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Credential.AccessToken != "user_token" {
			t.Errorf("expected user credential, got %+v", result.Credential)
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		exchanger := &fakeExchanger{}
		handler := NewOAuthHandler(exchanger, "expected")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=authcode", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if len(exchanger.codes) != 0 {
			t.Error("expected no exchange on state mismatch")
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error result")
		}
	})

	t.Run("Provider Denied", func(t *testing.T) {
		handler := NewOAuthHandler(&fakeExchanger{}, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&error=access_denied&error_description=user+denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error result")
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		exchanger := &fakeExchanger{err: errors.New("remote rejected")}
		handler := NewOAuthHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error result")
		}
	})

	t.Run("Replay Rejected", func(t *testing.T) {
		exchanger := &fakeExchanger{credential: models.UserCredential{AccessToken: "user_token"}}
		handler := NewOAuthHandler(exchanger, "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", second.Code)
		}
		if len(exchanger.codes) != 1 {
			t.Errorf("expected a single exchange, got %d", len(exchanger.codes))
		}
	})
}
