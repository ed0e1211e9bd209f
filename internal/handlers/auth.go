package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for register and login.
// Emptiness is validated by the service so it can report MissingFields.
type authCredentials struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw1"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		msg := errInvalidBodyPref + err.Error()
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			msg = msgMissingFields
		case errors.As(err, &typeErr) && typeErr.Field == "username":
			msg = msgInvalidUsername
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return false
	}
	return true
}

// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.Register(c.Request.Context(), input.Username, input.Password); err != nil {
		h.respondError(c, err, "auth_register_failed", "username", input.Username)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "username", input.Username)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgRegistered})
}

// @Summary      Log in
// @Description  Sets the session cookie and returns the same token for Bearer use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string  "message, token"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_login_failed", "username", input.Username)
		return
	}

	h.setSessionCookie(c, token, int(h.session.MaxAge.Seconds()))
	if h.log != nil {
		h.log.Infow("auth_logged_in", "username", input.Username)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgLoggedIn, "token": token})
}

// @Summary      Log out
// @Description  Clears the session cookie. Issued tokens stay valid until they expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, value, maxAge, "/", "", h.session.Secure, true)
}
