package appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicore/clinic-service/internal/auth"
)

// ProfileResolver maps a login identity to its role-specific profile
// id. Implemented by the account service.
type ProfileResolver interface {
	PatientProfileID(userID uint) (uint, error)
	DoctorProfileID(userID uint) (uint, error)
}

type appointmentHandler struct {
	log                *logrus.Entry
	appointmentService AppointmentService
	profiles           ProfileResolver
	jwtSecret          string
}

func NewHandler(appointmentService AppointmentService, profiles ProfileResolver, log *logrus.Entry, jwtSecret string) *appointmentHandler {
	return &appointmentHandler{
		log:                log,
		appointmentService: appointmentService,
		profiles:           profiles,
		jwtSecret:          jwtSecret,
	}
}

func (h *appointmentHandler) Register(router *gin.Engine) {
	patient := router.Group("/appointments", auth.Middleware(h.jwtSecret), auth.RequireRole(auth.RolePatient))
	{
		patient.POST("", h.book)
		patient.GET("/history", h.history)
	}

	// Cancellation is shared: patients cancel their own, staff cancel any.
	router.POST("/appointments/:ref/cancel",
		auth.Middleware(h.jwtSecret),
		auth.RequireRole(auth.RolePatient, auth.RoleDoctor, auth.RoleAdmin),
		h.cancel)

	doctor := router.Group("/schedule", auth.Middleware(h.jwtSecret), auth.RequireRole(auth.RoleDoctor))
	{
		doctor.GET("/day", h.doctorDay)
	}

	dashboard := router.Group("/dashboard", auth.Middleware(h.jwtSecret), auth.RequireRole(auth.RoleAdmin))
	{
		dashboard.GET("/appointments", h.dashboard)
		dashboard.GET("/doctors", h.doctorReport)
		dashboard.GET("/doctors/export", h.doctorReportExport)
		dashboard.GET("/clinics", h.clinicReport)
	}
}

func (h *appointmentHandler) book(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	profileID, err := h.profiles.PatientProfileID(claims.UserID)
	if err != nil {
		h.newErrorResponse(c, http.StatusForbidden, "no patient profile for this account")
		return
	}

	appt, err := h.appointmentService.Book(profileID, input)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			h.newErrorResponse(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, errSlotTaken):
			h.newErrorResponse(c, http.StatusConflict, "time slot already booked")
		default:
			h.newErrorResponse(c, http.StatusInternalServerError, "failed to book appointment")
		}
		return
	}

	c.JSON(http.StatusCreated, appt)
}

func (h *appointmentHandler) cancel(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var profileID uint
	if claims.Role == auth.RolePatient {
		var err error
		profileID, err = h.profiles.PatientProfileID(claims.UserID)
		if err != nil {
			h.newErrorResponse(c, http.StatusForbidden, "no patient profile for this account")
			return
		}
	}

	err := h.appointmentService.Cancel(claims, profileID, c.Param("ref"))
	if err != nil {
		switch {
		case errors.Is(err, errAppointmentNotFound):
			h.newErrorResponse(c, http.StatusNotFound, "appointment not found")
		case errors.Is(err, errNotOwner):
			h.newErrorResponse(c, http.StatusForbidden, "not your appointment")
		case errors.Is(err, errAlreadyCancelled):
			h.newErrorResponse(c, http.StatusConflict, "appointment is already cancelled")
		default:
			h.newErrorResponse(c, http.StatusInternalServerError, "failed to cancel appointment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *appointmentHandler) history(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	profileID, err := h.profiles.PatientProfileID(claims.UserID)
	if err != nil {
		h.newErrorResponse(c, http.StatusForbidden, "no patient profile for this account")
		return
	}

	appts, err := h.appointmentService.PatientHistory(profileID)
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *appointmentHandler) doctorDay(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		h.newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		h.newErrorResponse(c, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	profileID, err := h.profiles.DoctorProfileID(claims.UserID)
	if err != nil {
		h.newErrorResponse(c, http.StatusForbidden, "no doctor profile for this account")
		return
	}

	appts, err := h.appointmentService.DoctorDay(profileID, date)
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *appointmentHandler) dashboard(c *gin.Context) {
	clinicID := h.clinicScope(c)

	counts, err := h.appointmentService.Dashboard(clinicID)
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *appointmentHandler) doctorReport(c *gin.Context) {
	rows, err := h.appointmentService.DoctorReport(h.clinicScope(c))
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to fetch report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"doctors": rows})
}

func (h *appointmentHandler) doctorReportExport(c *gin.Context) {
	data, err := h.appointmentService.DoctorReportXLSX(h.clinicScope(c))
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to build report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="doctor-bookings.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *appointmentHandler) clinicReport(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok || !claims.Super {
		h.newErrorResponse(c, http.StatusForbidden, "platform supervisor only")
		return
	}

	rows, err := h.appointmentService.ClinicReport()
	if err != nil {
		h.newErrorResponse(c, http.StatusInternalServerError, "failed to fetch report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clinics": rows})
}

// clinicScope resolves which clinic a dashboard query covers: the
// admin's own clinic, or an explicit clinic_id for the supervisor.
func (h *appointmentHandler) clinicScope(c *gin.Context) uint {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return 0
	}
	if claims.Super {
		id, err := strconv.ParseUint(c.Query("clinic_id"), 10, 32)
		if err != nil {
			return 0
		}
		return uint(id)
	}
	if claims.ClinicID != nil {
		return *claims.ClinicID
	}
	return 0
}

type response struct {
	Message string `json:"message"`
}

func (h *appointmentHandler) newErrorResponse(c *gin.Context, statusCode int, message string) {
	h.log.Errorf(message)
	c.AbortWithStatusJSON(statusCode, &response{
		Message: message,
	})
}
