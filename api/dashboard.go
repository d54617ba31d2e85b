package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/http/middleware"
	"github.com/Domenick1991/dirabasi/internal/service/availability"
	"github.com/Domenick1991/dirabasi/internal/service/booking"
	"github.com/Domenick1991/dirabasi/internal/service/payment"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the traveler booking flow.
type DashboardHandler struct {
	service booking.BookingUseCase
	now     func() time.Time
}

func NewDashboardHandler(service booking.BookingUseCase) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

type idRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type countRequest struct {
	Count *int `json:"count" binding:"required"`
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/state", h.state)
	router.GET("/routes", h.routes)
	router.POST("/route", h.chooseRoute)
	router.GET("/stations", h.stations)
	router.POST("/station", h.chooseStation)
	router.GET("/buses", h.buses)
	router.POST("/bus", h.chooseBus)
	router.GET("/seats", h.seats)
	router.POST("/seats/:id/toggle", h.toggleSeat)
	router.PUT("/seats/passengers", h.setPassengers)
	router.PUT("/seats/luggage", h.setLuggage)
	router.POST("/seats/confirm", h.confirmSeats)
	router.POST("/payment", h.pay)
	router.GET("/receipt", h.receipt)
	router.GET("/receipt/pdf", h.receiptPDF)
	router.POST("/back", h.back)
	router.POST("/new-booking", h.newBooking)
}

func (h *DashboardHandler) state(c *gin.Context) {
	h.respond(c)(h.service.State(c.Request.Context(), middleware.GetSessionID(c)))
}

func (h *DashboardHandler) routes(c *gin.Context) {
	cards, err := h.service.Routes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *DashboardHandler) chooseRoute(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "route id is required")
		return
	}
	h.respond(c)(h.service.ChooseRoute(c.Request.Context(), middleware.GetSessionID(c), req.ID))
}

func (h *DashboardHandler) stations(c *gin.Context) {
	view, err := h.service.Stations(c.Request.Context(), middleware.GetSessionID(c), h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) chooseStation(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "station id is required")
		return
	}
	h.respond(c)(h.service.ChooseStation(c.Request.Context(), middleware.GetSessionID(c), req.ID))
}

func (h *DashboardHandler) buses(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.service.Buses(c.Request.Context(), middleware.GetSessionID(c), q, h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) chooseBus(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bus id is required")
		return
	}
	h.respond(c)(h.service.ChooseBus(c.Request.Context(), middleware.GetSessionID(c), req.ID))
}

func (h *DashboardHandler) seats(c *gin.Context) {
	h.respondSeats(c)(h.service.SeatMap(c.Request.Context(), middleware.GetSessionID(c)))
}

func (h *DashboardHandler) toggleSeat(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid seat id")
		return
	}
	h.respondSeats(c)(h.service.ToggleSeat(c.Request.Context(), middleware.GetSessionID(c), id))
}

func (h *DashboardHandler) setPassengers(c *gin.Context) {
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "count is required")
		return
	}
	h.respondSeats(c)(h.service.SetPassengers(c.Request.Context(), middleware.GetSessionID(c), *req.Count))
}

func (h *DashboardHandler) setLuggage(c *gin.Context) {
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "count is required")
		return
	}
	h.respondSeats(c)(h.service.SetLuggage(c.Request.Context(), middleware.GetSessionID(c), *req.Count))
}

func (h *DashboardHandler) confirmSeats(c *gin.Context) {
	h.respond(c)(h.service.ConfirmSeats(c.Request.Context(), middleware.GetSessionID(c)))
}

func (h *DashboardHandler) pay(c *gin.Context) {
	var form payment.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.service.SubmitPayment(c.Request.Context(), middleware.GetSessionID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": res, "step": domain.StepReceipt, "path": domain.StepReceipt.Path()})
}

func (h *DashboardHandler) receipt(c *gin.Context) {
	ticket, err := h.service.Receipt(c.Request.Context(), middleware.GetSessionID(c), h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *DashboardHandler) receiptPDF(c *gin.Context) {
	data, name, err := h.service.ReceiptPDF(c.Request.Context(), middleware.GetSessionID(c), h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *DashboardHandler) back(c *gin.Context) {
	h.respond(c)(h.service.Back(c.Request.Context(), middleware.GetSessionID(c)))
}

func (h *DashboardHandler) newBooking(c *gin.Context) {
	h.respond(c)(h.service.NewBooking(c.Request.Context(), middleware.GetSessionID(c)))
}

func (h *DashboardHandler) respond(c *gin.Context) func(booking.StateView, error) {
	return func(view booking.StateView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (h *DashboardHandler) respondSeats(c *gin.Context) func(booking.SeatMapView, error) {
	return func(view booking.SeatMapView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// parseQuery reads sort, dir, min_seats, max_price, types and statuses. Absent values keep their defaults.
func parseQuery(c *gin.Context) (availability.Query, error) {
	q := availability.Query{
		Sort: availability.SortKey(c.Query("sort")),
		Dir:  availability.Direction(c.Query("dir")),
	}
	if raw := c.Query("min_seats"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, domain.ValidationError{Field: "min_seats", Msg: "must be a number"}
		}
		q.MinSeats = n
	}
	if raw := c.Query("max_price"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, domain.ValidationError{Field: "max_price", Msg: "must be a number"}
		}
		q.MaxPrice = n
	}
	for _, t := range availability.ParseList(c.Query("types")) {
		q.Types = append(q.Types, domain.BusType(t))
	}
	for _, s := range availability.ParseList(c.Query("statuses")) {
		q.Statuses = append(q.Statuses, domain.BusStatus(s))
	}
	return q, nil
}
