package controllers

import (
	"log"
	"net/http"

	"yardly-backend/middleware"
	"yardly-backend/services"
	"yardly-backend/utils"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	Calendar *services.CalendarService
}

func NewCalendarController(calendar *services.CalendarService) *CalendarController {
	return &CalendarController{Calendar: calendar}
}

// ----------------------------------------------------
// 1. Sync Calendar (POST /api/calendar/sync)
// ----------------------------------------------------

func (cc *CalendarController) SyncCalendar(c *gin.Context) {
	result, err := cc.Calendar.Sync(middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("calendar sync failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to sync calendar")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// ----------------------------------------------------
// 2. List Calendar (GET /api/calendar)
// ----------------------------------------------------

func (cc *CalendarController) GetCalendar(c *gin.Context) {
	events, err := cc.Calendar.ListForHost(middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("list calendar failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events)
}
