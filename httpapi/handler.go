package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	goGuard "github.com/MrEthical07/goGuard"
)

// CookieName is the session cookie consulted when no Authorization header
// is present. The __Host- prefix requires Secure and Path=/ when the host
// application sets it.
const CookieName = "__Host-session"

// Handler adapts an engine's prebuilt chains to gin routes.
type Handler struct {
	engine *goGuard.Engine
}

// NewHandler returns a Handler serving the session management routes from
// engine's chains.
func NewHandler(engine *goGuard.Engine) *Handler {
	return &Handler{engine: engine}
}

// Mount registers the session routes on group:
//
//	GET    /me      list the caller's sessions
//	DELETE /me/:id  revoke one of the caller's sessions
//	GET    /        list every session (admin)
//	DELETE /:id     revoke any session (admin)
func (h *Handler) Mount(group *gin.RouterGroup) {
	group.GET("/me", h.listOwn)
	group.DELETE("/me/:id", h.deleteOwn)
	group.GET("/", h.listAll)
	group.DELETE("/:id", h.deleteAny)
}

func (h *Handler) listOwn(c *gin.Context) {
	result, err := h.engine.SelfListChain().Run(c.Request.Context(), requestFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": result})
}

func (h *Handler) deleteOwn(c *gin.Context) {
	_, err := h.engine.SelfDeleteChain().Run(c.Request.Context(), requestFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listAll(c *gin.Context) {
	result, err := h.engine.AdminListChain().Run(c.Request.Context(), requestFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": result})
}

func (h *Handler) deleteAny(c *gin.Context) {
	_, err := h.engine.AdminDeleteChain().Run(c.Request.Context(), requestFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requestFrom extracts the transport credential and path parameters. A
// bearer Authorization header wins over the session cookie.
func requestFrom(c *gin.Context) goGuard.GuardRequest {
	req := goGuard.GuardRequest{
		Credential: credentialFrom(c),
		ClientIP:   c.ClientIP(),
	}
	if id := c.Param("id"); id != "" {
		req.Params = map[string]string{"id": id}
	}
	return req
}

func credentialFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, goGuard.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
		message = "rate limit exceeded"
	case errors.Is(err, goGuard.ErrUnauthenticated), errors.Is(err, goGuard.ErrUserNotFound):
		status = http.StatusUnauthorized
		message = "unauthenticated"
	case errors.Is(err, goGuard.ErrForbidden):
		status = http.StatusForbidden
		message = "forbidden"
	case errors.Is(err, goGuard.ErrValidationFailed):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, goGuard.ErrSessionNotFound):
		status = http.StatusNotFound
		message = "session not found"
	case errors.Is(err, goGuard.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		message = "backing store unavailable"
	}

	c.JSON(status, gin.H{"error": message})
}
