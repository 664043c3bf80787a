package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/auth"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Auth            *auth.Service
	Expires         int
	SecureCookie    bool
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

// GoogleStart redirects to the consent screen. The "role" query decides the
// role of a newly created account; "next" is the frontend path to return to.
func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	st, err := utils.RandomToken(32)
	if err != nil {
		return fail(c, err)
	}

	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", c.Query("next", "/"), 10*60)
	h.tempCookie(c, "oauth_role", c.Query("role", "client"), 10*60)

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *GoogleOAuthHandler) fetchProfile(c *fiber.Ctx, code string) (*googleUserInfo, error) {
	tok, err := h.oauthCfg().Exchange(c.UserContext(), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := h.oauthCfg().Client(c.UserContext(), tok).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &gu, nil
}

func (h *GoogleOAuthHandler) loginError(c *fiber.Ctx, msg string) error {
	return c.Redirect(h.FrontendBaseURL+"/auth/login?err="+url.QueryEscape(msg), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code/state")
	}

	stCookie := c.Cookies("oauth_state")
	if stCookie == "" || stCookie != state {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid state")
	}
	next := c.Cookies("oauth_next")
	role := c.Cookies("oauth_role")

	for _, name := range []string{"oauth_state", "oauth_next", "oauth_role"} {
		h.tempCookie(c, name, "", -1)
	}

	gu, err := h.fetchProfile(c, code)
	if err != nil {
		log.Printf("[google] %v", err)
		return h.loginError(c, "Google sign-in failed")
	}
	if !gu.VerifiedEmail {
		return h.loginError(c, "Google email is not verified")
	}

	sess, err := h.Auth.GoogleSignIn(c.UserContext(), auth.GoogleProfile{
		Email:   gu.Email,
		Name:    gu.Name,
		Picture: gu.Picture,
	}, role)
	if err != nil {
		log.Printf("[google] sign-in %s: %v", gu.Email, err)
		return h.loginError(c, "Google sign-in failed")
	}

	setTokenCookie(c, sess.Token, h.Expires*60, h.SecureCookie)

	// only relative paths, never an open redirect
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
