package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	midsec "github.com/SHANKAR-YADAVA/ChatApp/middleware/security"
	"github.com/SHANKAR-YADAVA/ChatApp/module/user/service"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

const cookieMaxAge = 7 * 24 * 3600 // keep in sync with token TTL

type Handler struct {
	Svc    *service.Service
	Secure bool // Secure cookie flag; off in development
}

func NewHandler(svc *service.Service, secure bool) *Handler {
	return &Handler{Svc: svc, Secure: secure}
}

type signupReq struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	u, token, err := h.Svc.Signup(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(midsec.CookieName, "", -1, "/", "", h.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Check returns the authenticated user; the SPA calls it on load.
func (h *Handler) Check(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateProfileReq struct {
	ProfilePic string `json:"profilePic" binding:"required"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	u, err := h.Svc.UpdateProfilePic(c.Request.Context(), midsec.UserID(c), req.ProfilePic)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(midsec.CookieName, token, cookieMaxAge, "/", "", h.Secure, true)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errs.ErrArgs.Is(err), service.ErrWeakPassword.Is(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.ErrEmailTaken.Is(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrInvalidCredentials.Is(err), errs.ErrTokenExpired.Is(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errs.ErrRecordNotFound.Is(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("[user] handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
