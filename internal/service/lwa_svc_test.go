package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExchangeAuthorizationCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("解析表单失败: %v", err)
		}
		if r.Form.Get("grant_type") != "authorization_code" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		if r.Form.Get("code") != "auth-code-1" {
			t.Errorf("code = %q", r.Form.Get("code"))
		}
		if r.Form.Get("redirect_uri") != "https://app.example.com/cb" {
			t.Errorf("redirect_uri = %q", r.Form.Get("redirect_uri"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResult{
			AccessToken:  "at-x",
			RefreshToken: "rt-x",
			TokenType:    "bearer",
			ExpiresIn:    3600,
		})
	}))
	defer server.Close()

	svc := NewLWAService(&LWAConfig{
		ClientID:     "cid",
		ClientSecret: "cs",
		RedirectURI:  "https://app.example.com/cb",
		TokenURL:     server.URL,
	})

	result, err := svc.ExchangeAuthorizationCode(context.Background(), "auth-code-1")
	if err != nil {
		t.Fatalf("ExchangeAuthorizationCode() 失败: %v", err)
	}
	if result.AccessToken != "at-x" || result.RefreshToken != "rt-x" {
		t.Errorf("token 结果不正确: %+v", result)
	}
	if result.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d", result.ExpiresIn)
	}
}

func TestExchangeAuthorizationCode_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"The request has an invalid grant parameter"}`))
	}))
	defer server.Close()

	svc := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs", TokenURL: server.URL})

	_, err := svc.ExchangeAuthorizationCode(context.Background(), "bad-code")
	if err == nil {
		t.Fatal("授权码被拒应返回错误")
	}

	var exchangeErr *AuthExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("错误类型应为 *AuthExchangeError, got %T", err)
	}
	if exchangeErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", exchangeErr.StatusCode)
	}
}

func TestLWAConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LWAConfig
		wantErr bool
	}{
		{"完整配置", LWAConfig{ClientID: "a", ClientSecret: "b"}, false},
		{"缺 client id", LWAConfig{ClientSecret: "b"}, true},
		{"缺 client secret", LWAConfig{ClientID: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLWAService_DefaultEndpoints(t *testing.T) {
	svc := NewLWAService(&LWAConfig{ClientID: "a", ClientSecret: "b"})
	if svc.Config().TokenURL != DefaultTokenURL {
		t.Errorf("TokenURL = %q", svc.Config().TokenURL)
	}
	if svc.Config().ConsentURL != DefaultConsentURL {
		t.Errorf("ConsentURL = %q", svc.Config().ConsentURL)
	}
}
