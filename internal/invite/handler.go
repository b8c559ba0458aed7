package invite

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

type inviteHandler struct {
	log           *logrus.Entry
	inviteService InviteService
	jwtSecret     string
}

func NewHandler(inviteService InviteService, log *logrus.Entry, jwtSecret string) *inviteHandler {
	return &inviteHandler{
		log:           log,
		inviteService: inviteService,
		jwtSecret:     jwtSecret,
	}
}

func (h *inviteHandler) Register(router *gin.Engine) {
	// Resolution is public: the registration page calls it before the
	// visitor has an account.
	router.GET("/invites/resolve/:code", h.resolve)

	invites := router.Group("/invites", auth.Middleware(h.jwtSecret), auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	{
		invites.POST("", h.issue)
		invites.GET("", h.list)
		invites.POST("/:code/revoke", h.revoke)
	}
}

func (h *inviteHandler) issue(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	inv, err := h.inviteService.Issue(claims, req)
	if err != nil {
		switch err {
		case errUnauthorized:
			h.newErrorResponse(c, http.StatusForbidden, "not allowed to issue this invite")
		case errUnsupportedRole, errUnsupportedScope:
			h.newErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		default:
			h.newErrorResponse(c, http.StatusInternalServerError, "failed to issue invite")
		}
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *inviteHandler) resolve(c *gin.Context) {
	res, err := h.inviteService.Resolve(c.Param("code"))
	if err != nil {
		if err == errInviteNotFound {
			h.newErrorResponse(c, http.StatusNotFound, "invalid invite code")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to resolve invite")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *inviteHandler) revoke(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := h.inviteService.Revoke(claims, c.Param("code"))
	if err != nil {
		switch err {
		case errInviteNotFound:
			h.newErrorResponse(c, http.StatusNotFound, "invalid invite code")
		case errUnauthorized:
			h.newErrorResponse(c, http.StatusForbidden, "not allowed to revoke this invite")
		default:
			h.newErrorResponse(c, http.StatusInternalServerError, "failed to revoke invite")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *inviteHandler) list(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	clinicID, err := strconv.ParseUint(c.Query("clinic_id"), 10, 32)
	if err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "invalid clinic id")
		return
	}

	invites, err := h.inviteService.ListByClinic(claims, uint(clinicID))
	if err != nil {
		if err == errUnauthorized {
			h.newErrorResponse(c, http.StatusForbidden, "not allowed to list invites for this clinic")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to list invites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

type response struct {
	Message string `json:"message"`
}

func (h *inviteHandler) newErrorResponse(c *gin.Context, statusCode int, message string) {
	h.log.Errorf(message)
	c.AbortWithStatusJSON(statusCode, &response{
		Message: message,
	})
}
