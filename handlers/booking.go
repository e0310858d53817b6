package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/booking"
	"medibook/services/identity"
	"medibook/utils"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	svc    booking.ReservationService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.ReservationService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// statusForCode maps flow error codes to HTTP statuses. Session-id conflicts
// never surface here; only slot conflicts do.
func statusForCode(code string) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeNotFound, booking.CodeReferenceNotFound:
		return http.StatusNotFound
	case booking.CodePricing:
		return http.StatusUnprocessableEntity
	case booking.CodePaymentNotConfirmed:
		return http.StatusPaymentRequired
	case booking.CodeMissingIdentity:
		return http.StatusUnauthorized
	case booking.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	if code == "" {
		h.logger.Error("booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONError(c, statusForCode(code), code, err.Error())
}

// ListAvailability handles GET /api/availability/:doctorID.
func (h *BookingHandler) ListAvailability(c *gin.Context) {
	doctorID := c.Param("doctorID")

	rangeStart := time.Now()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start date", "expected YYYY-MM-DD")
			return
		}
		rangeStart = parsed
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid days", "expected a positive integer")
			return
		}
		days = parsed
	}

	callerExternalID := c.GetString(middleware.CtxExternalID)

	// Anonymous responses carry no isMine personalization, so they are safe to
	// cache for a short window. The availability view is advisory anyway.
	cacheKey := ""
	if callerExternalID == "" {
		cacheKey = fmt.Sprintf("availability:%s:%s:%d", doctorID, rangeStart.Format("2006-01-02"), days)
		if cached, err := utils.GetCacheClient().Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	schedule, err := h.svc.ListOccurrences(c.Request.Context(), doctorID, rangeStart, days, callerExternalID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if cacheKey != "" {
		if body, err := json.Marshal(gin.H{"schedule": schedule}); err == nil {
			if err := utils.GetCacheClient().Set(c.Request.Context(), cacheKey, body, 30*time.Second).Err(); err != nil {
				h.logger.Warn("failed to cache availability", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// ListBooked handles GET /api/availability/:doctorID/booked.
func (h *BookingHandler) ListBooked(c *gin.Context) {
	occurrences, err := h.svc.ListBookedOccurrences(c.Request.Context(), c.Param("doctorID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booked": occurrences})
}

// CreateReservation handles POST /api/reservations.
func (h *BookingHandler) CreateReservation(c *gin.Context) {
	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	caller := identity.Identity{
		ExternalID: c.GetString(middleware.CtxExternalID),
		Name:       c.GetString(middleware.CtxUserName),
		Email:      c.GetString(middleware.CtxUserEmail),
	}

	session, err := h.svc.CreateReservation(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CommitSession handles POST /api/reservations/commit. Both the payment
// webhook and the client's post-redirect poll land here; repeated calls for
// one session always return the same booking.
func (h *BookingHandler) CommitSession(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	committed, err := h.svc.CommitSession(c.Request.Context(), input.SessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, committed)
}

// ListMyBookings handles GET /api/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.svc.ListUserBookings(c.Request.Context(), c.GetString(middleware.CtxExternalID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
