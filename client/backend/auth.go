package backend

import (
	"context"
	"net/http"
)

func (c *Client) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user owning accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendOTP asks the backend to email a verification code to the signed-in user.
func (c *Client) SendOTP(ctx context.Context, token string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/send-otp", token, struct{}{}, &out)
	return out.Message, err
}

func (c *Client) VerifyEmail(ctx context.Context, token, otp string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/verify-email", token, map[string]string{"otp": otp}, &out)
	return out.Message, err
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/reset-password-request", "", map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", "", req, &out)
	return out.Message, err
}
