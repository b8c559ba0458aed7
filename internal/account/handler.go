package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

const (
	loginPath    = "/login"
	registerPath = "/register"
	validatePath = "/validate"
)

type accountHandler struct {
	log            *logrus.Entry
	accountService AccountService
	jwtSecret      string
}

func NewHandler(accountService AccountService, log *logrus.Entry, jwtSecret string) *accountHandler {
	return &accountHandler{
		log:            log,
		accountService: accountService,
		jwtSecret:      jwtSecret,
	}
}

func (h *accountHandler) Register(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST(loginPath, h.login)
		authGroup.POST(registerPath, h.register)
		authGroup.GET(validatePath, auth.Middleware(h.jwtSecret), h.validate)
	}
}

func (h *accountHandler) register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), input)
	if err != nil {
		var verr *ValidationError
		var conflict *ConflictError
		switch {
		case errors.As(err, &verr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "validation failed",
				"fields":  verr.Fields,
			})
		case errors.Is(err, errEmailTaken):
			h.newErrorResponse(c, http.StatusConflict, "email already registered")
		case errors.Is(err, errInvalidInvite):
			h.newErrorResponse(c, http.StatusUnprocessableEntity, "invalid invite code")
		case errors.As(err, &conflict):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"message": "validation failed",
				"fields":  gin.H{conflict.Field: "already in use"},
			})
		default:
			h.newErrorResponse(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   user.ID,
		"role": user.Role,
	})
}

func (h *accountHandler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if c.ShouldBindJSON(&body) != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	token, claims, err := h.accountService.Login(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, errFailedPasswordOrEmail) {
			h.newErrorResponse(c, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "login server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"claims": claims,
	})
}

func (h *accountHandler) validate(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.accountService.GetUserByID(claims.UserID)
	if err != nil {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	c.JSON(http.StatusOK, user)
}

type response struct {
	Message string `json:"message"`
}

func (h *accountHandler) newErrorResponse(c *gin.Context, statusCode int, message string) {
	h.log.Errorf(message)
	c.AbortWithStatusJSON(statusCode, &response{
		Message: message,
	})
}
