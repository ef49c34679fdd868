package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/playspot/playspot-backend/internal/auth"
	"github.com/playspot/playspot-backend/internal/pkg/response"
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
	"github.com/playspot/playspot-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := time.Parse(dateLayout, body.ReservationDate)
	if err != nil {
		response.Error(c, reservation.ErrInvalidDate)
		return
	}
	startMin, err := timeutil.ParseClock(body.StartTime)
	if err != nil {
		response.Error(c, reservation.ErrInvalidClock)
		return
	}
	endMin, err := timeutil.ParseClock(body.EndTime)
	if err != nil {
		response.Error(c, reservation.ErrInvalidClock)
		return
	}

	res, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		UserID:         userID,
		FacilityID:     body.FacilityID,
		Date:           date,
		StartMin:       startMin,
		EndMin:         endMin,
		NumberOfPeople: body.NumberOfPeople,
		ContactPhone:   body.ContactPhone,
		Memo:           body.Memo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var date *time.Time
	if v := c.Query("date"); v != "" {
		if d, err := time.Parse(dateLayout, v); err == nil {
			date = &d
		}
	}

	filter := reservation.Filter{
		FacilityID: c.Query("facility_id"),
		Status:     c.Query("status"),
		Date:       date,
		Page:       page,
		PageSize:   pageSize,
	}

	reservations, total, err := h.service.List(c.Request.Context(), auth.GetUserID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	target, err := reservation.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.UpdateStatus(c.Request.Context(), id, auth.GetUserID(c), target)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

// AvailableSlots handles GET /facilities/:id/available-slots?date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(c *gin.Context) {
	facilityID := c.Param("id")
	if _, err := uuid.Parse(facilityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		response.Error(c, reservation.ErrInvalidDate)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), facilityID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": NewSlotResponses(slots)})
}
