package actions

import (
	"net/http"

	"devlink/client/backend"
	"devlink/internal/session"
	"devlink/internal/validate"
)

type OTPInput struct {
	OTP string `json:"otp"`
}

type ResetRequestInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignIn authenticates with the backend and starts a session.
func (s *Service) SignIn(w http.ResponseWriter, r *http.Request, in backend.SignInRequest) Result {
	const action = "signin"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	if fe := validate.SignIn.Check(in); fe != nil {
		return s.invalid(action, fe)
	}
	resp, err := s.api.SignIn(r.Context(), in)
	if err != nil {
		return s.fail(r.Context(), action, err, "Invalid email or password")
	}
	return s.startSession(w, r, action, resp, "Signed in successfully")
}

// SignUp registers the user and signs them in. The backend emails the
// verification code.
func (s *Service) SignUp(w http.ResponseWriter, r *http.Request, in backend.SignUpRequest) Result {
	const action = "signup"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	if fe := validate.SignUp.Check(in); fe != nil {
		return s.invalid(action, fe)
	}
	resp, err := s.api.SignUp(r.Context(), in)
	if err != nil {
		return s.fail(r.Context(), action, err, "Could not create account")
	}
	return s.startSession(w, r, action, resp, "Account created. Check your email for a verification code")
}

func (s *Service) startSession(w http.ResponseWriter, r *http.Request, action string, resp *backend.AuthResponse, msg string) Result {
	if resp.AccessToken == "" {
		return s.fail(r.Context(), action, errMissingToken, "")
	}
	sess, err := s.sessions.Create(w, session.Payload{User: resp.User, AccessToken: resp.AccessToken})
	if err != nil {
		return s.fail(r.Context(), action, err, "")
	}
	return s.ok(action, msg, sess.User)
}

// SignOut ends the session.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) Result {
	s.sessions.Destroy(w)
	return s.ok("signout", "Signed out", nil)
}

// SendOTP asks the backend to email a fresh verification code.
func (s *Service) SendOTP(w http.ResponseWriter, r *http.Request) Result {
	const action = "send-otp"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return s.unauthenticated(action)
	}
	msg, err := s.api.SendOTP(r.Context(), sess.AccessToken)
	if err != nil {
		return s.failSession(r.Context(), action, err, "Could not send verification code")
	}
	return s.ok(action, orDefault(msg, "Verification code sent"), nil)
}

// VerifyEmail submits the code and refreshes the session so the cached user
// is marked verified without signing in again.
func (s *Service) VerifyEmail(w http.ResponseWriter, r *http.Request, in OTPInput) Result {
	const action = "verify-email"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	if fe := validate.OTP.Check(in); fe != nil {
		return s.invalid(action, fe)
	}
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return s.unauthenticated(action)
	}
	msg, err := s.api.VerifyEmail(r.Context(), sess.AccessToken, in.OTP)
	if err != nil {
		return s.failSession(r.Context(), action, err, "Invalid or expired code")
	}

	fresh := s.sessions.Refresh(w, r, sess)
	if fresh == nil {
		s.logFor(r.Context(), action).WithField("user_id", sess.User.ID).
			Warn("Email verified but session refresh failed")
		return s.ok(action, "Email verified. Please sign in again", nil)
	}
	return s.ok(action, orDefault(msg, "Email verified"), fresh.User)
}

// RequestPasswordReset emails a reset link. The answer does not reveal
// whether the address has an account.
func (s *Service) RequestPasswordReset(w http.ResponseWriter, r *http.Request, in ResetRequestInput) Result {
	const action = "reset-password-request"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	if fe := validate.ResetRequest.Check(in); fe != nil {
		return s.invalid(action, fe)
	}
	msg, err := s.api.RequestPasswordReset(r.Context(), in.Email)
	if err != nil {
		return s.fail(r.Context(), action, err, "Could not send reset link")
	}
	return s.ok(action, orDefault(msg, "If that email exists, a reset link is on its way"), nil)
}

func (s *Service) ResetPassword(w http.ResponseWriter, r *http.Request, in ResetPasswordInput) Result {
	const action = "reset-password"
	if res, ok := s.limited(action, r); ok {
		return res
	}
	fe := validate.ResetPassword.Check(in)
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		if fe == nil {
			fe = validate.FieldErrors{}
		}
		fe.Add("confirmPassword", "Passwords do not match")
	}
	if fe != nil {
		return s.invalid(action, fe)
	}
	msg, err := s.api.ResetPassword(r.Context(), backend.ResetPasswordRequest{Token: in.Token, Password: in.Password})
	if err != nil {
		return s.fail(r.Context(), action, err, "Could not reset password")
	}
	return s.ok(action, orDefault(msg, "Password updated. You can sign in now"), nil)
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
