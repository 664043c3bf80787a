package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/auth"
)

type AuthHandler struct {
	Auth         *auth.Service
	Photos       PhotoUploads
	Expires      int
	SecureCookie bool
}

func setTokenCookie(c *fiber.Ctx, token string, maxAge int, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

// Register accepts JSON, or multipart with an optional "photo" file.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	photo, err := h.Photos.Save(c, "photo")
	if err != nil {
		return fail(c, err)
	}
	req.PhotoURL = photo

	u, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		h.Photos.Discard(photo)
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated,
		"User registered successfully. Please check your email for OTP and validate it.",
		fiber.Map{"user": u})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	setTokenCookie(c, sess.Token, h.Expires*60, h.SecureCookie)
	return ok(c, fiber.StatusOK, "Login successful", sess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	setTokenCookie(c, "", -1, h.SecureCookie)
	return ok(c, fiber.StatusOK, "Logout successful", nil)
}

type emailReq struct {
	Email string `json:"email"`
}

type otpReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *AuthHandler) ValidateOTP(c *fiber.Ctx) error {
	var req otpReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ValidateOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OTP validated successfully", nil)
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req emailReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ResendOTP(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OTP resent successfully. Please check your email.", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req emailReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Password reset link sent to your email", nil)
}

type resetReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ResetPassword(c.UserContext(), c.Params("token"), req.Password, req.ConfirmPassword); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Password reset successful", nil)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	err := h.Auth.UpdatePassword(c.UserContext(), middleware.Identity(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Password updated", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.Auth.Me(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"user": u})
}

func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Auth.Dashboard(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", d)
}

// UpdateProfile accepts JSON, or multipart with an optional "photo" file.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req auth.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	photo, err := h.Photos.Save(c, "photo")
	if err != nil {
		return fail(c, err)
	}
	if photo != "" {
		req.PhotoURL = &photo
	}

	u, err := h.Auth.UpdateProfile(c.UserContext(), middleware.Identity(c), req)
	if err != nil {
		h.Photos.Discard(photo)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile updated", fiber.Map{"user": u})
}
