package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meshline/meshline-go/internal/session"
	"github.com/meshline/meshline-go/pkg/models"
)

// Credentials is the login payload; either Email or PhoneNumber identifies
// the account.
type Credentials struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password,omitempty"`
}

// SignupData is the account-creation payload.
type SignupData struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password"`
}

// adopt stores the credential and connects the realtime channel. Called on
// every auth response that carries a token.
func (c *Client) adopt(ctx context.Context, resp models.AuthResponse) error {
	if resp.Token == "" {
		return nil
	}

	userID := ""
	if id, err := session.Inspect(resp.Token); err == nil {
		userID = id.UserID
	}
	if err := c.session.Save(ctx, resp.Token, userID); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if err := c.channel.Connect(resp.Token); err != nil {
		logger.Warn("client: realtime connect after auth", "err", err)
	}
	return nil
}

// Login authenticates and, on success, stores the token and connects the
// realtime channel.
func (c *Client) Login(ctx context.Context, creds Credentials) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return resp, err
	}
	if err := c.adopt(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Signup registers a new account; a returned token is adopted like a login.
func (c *Client) Signup(ctx context.Context, data SignupData) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, data, &resp); err != nil {
		return resp, err
	}
	if err := c.adopt(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// UserInfo fetches the authenticated user's record.
func (c *Client) UserInfo(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendPhoneVerification requests a verification code.
func (c *Client) SendPhoneVerification(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	body := map[string]string{"phoneNumber": phoneNumber}
	return c.do(ctx, http.MethodPost, "/auth/phone/send-code", nil, body, nil)
}

// VerifyPhone confirms a verification code; a returned token is adopted.
func (c *Client) VerifyPhone(ctx context.Context, phoneNumber, code, deviceToken string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if phoneNumber == "" || code == "" {
		return resp, fmt.Errorf("phone number and code are required")
	}

	body := map[string]any{
		"phoneNumber": phoneNumber,
		"code":        code,
	}
	if deviceToken != "" {
		body["deviceToken"] = deviceToken
	}
	if err := c.do(ctx, http.MethodPost, "/auth/phone/verify", nil, body, &resp); err != nil {
		return resp, err
	}
	if err := c.adopt(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Logout disconnects the realtime channel, tells the backend, and clears
// the stored credential. The channel and credential are torn down even when
// the HTTP call fails.
func (c *Client) Logout(ctx context.Context) error {
	c.channel.Disconnect()

	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)

	if clearErr := c.session.Clear(ctx); clearErr != nil {
		logger.Error("client: clear session on logout", "err", clearErr)
		if err == nil {
			err = clearErr
		}
	}
	return err
}

// CheckAuthProvider reports which auth provider owns an identifier. The
// payload shape depends on whether the identifier looks like an email.
func (c *Client) CheckAuthProvider(ctx context.Context, identifier string) (json.RawMessage, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}

	body := map[string]string{}
	if strings.Contains(identifier, "@") {
		body["email"] = identifier
	} else {
		body["phoneNumber"] = identifier
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/check-provider", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Setup2FA begins two-factor enrollment for the given method.
func (c *Client) Setup2FA(ctx context.Context, method string) (json.RawMessage, error) {
	if method == "" {
		return nil, fmt.Errorf("method is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/auth/2fa/setup", nil, map[string]string{"method": method}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GoogleLoginURL is the OAuth entry point; the caller navigates to it.
func (c *Client) GoogleLoginURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/auth/google"
}

// LinkedInLoginURL is the OAuth entry point; the caller navigates to it.
func (c *Client) LinkedInLoginURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/auth/linkedin"
}
