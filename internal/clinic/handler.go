package clinic

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

type clinicHandler struct {
	log           *logrus.Entry
	clinicService ClinicService
	jwtSecret     string
}

func NewHandler(clinicService ClinicService, log *logrus.Entry, jwtSecret string) *clinicHandler {
	return &clinicHandler{
		log:           log,
		clinicService: clinicService,
		jwtSecret:     jwtSecret,
	}
}

func (h *clinicHandler) Register(router *gin.Engine) {
	clinics := router.Group("/clinics", auth.Middleware(h.jwtSecret), auth.RequireRole(auth.RoleAdmin))
	{
		clinics.POST("", h.addClinic)
		clinics.GET("", h.listClinics)
		clinics.GET("/:id", h.getClinic)
		clinics.PATCH("/:id", h.updateClinic)
		clinics.POST("/:id/deactivate", h.deactivateClinic)
	}
}

func (h *clinicHandler) addClinic(c *gin.Context) {
	var input ClinicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	clinic, err := h.clinicService.AddClinic(c.Request.Context(), input)
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to create clinic")
		return
	}

	c.JSON(http.StatusCreated, clinic)
}

func (h *clinicHandler) listClinics(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != StatusActive && status != StatusInactive {
		h.newErrorResponse(c, http.StatusBadRequest, "unknown status filter")
		return
	}

	clinics, err := h.clinicService.ListClinics(status)
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to list clinics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clinics": clinics})
}

func (h *clinicHandler) getClinic(c *gin.Context) {
	id, err := h.idParam(c)
	if err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "invalid clinic id")
		return
	}

	clinic, addr, err := h.clinicService.GetClinic(id)
	if err != nil {
		if err == errClinicNotFound {
			h.newErrorResponse(c, http.StatusNotFound, "clinic not found")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to get clinic")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clinic": clinic, "address": addr})
}

func (h *clinicHandler) updateClinic(c *gin.Context) {
	id, err := h.idParam(c)
	if err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "invalid clinic id")
		return
	}

	var input ClinicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	clinic, err := h.clinicService.UpdateClinic(c.Request.Context(), id, input)
	if err != nil {
		if err == errClinicNotFound {
			h.newErrorResponse(c, http.StatusNotFound, "clinic not found")
			return
		}
		if err == errClinicInactive {
			h.newErrorResponse(c, http.StatusConflict, "clinic is inactive")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to update clinic")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *clinicHandler) deactivateClinic(c *gin.Context) {
	id, err := h.idParam(c)
	if err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "invalid clinic id")
		return
	}

	if err := h.clinicService.DeactivateClinic(id); err != nil {
		if err == errClinicNotFound {
			h.newErrorResponse(c, http.StatusNotFound, "clinic not found")
			return
		}
		if err == errClinicInactive {
			h.newErrorResponse(c, http.StatusConflict, "clinic is inactive")
			return
		}
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to deactivate clinic")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *clinicHandler) idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

type response struct {
	Message string `json:"message"`
}

func (h *clinicHandler) newErrorResponse(c *gin.Context, statusCode int, message string) {
	h.log.Errorf(message)
	c.AbortWithStatusJSON(statusCode, &response{
		Message: message,
	})
}
