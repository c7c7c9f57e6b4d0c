package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvminh/tally/report"
)

func getStartEndTimes(startQuery, endQuery string, minStart func(end time.Time) time.Time) (start, end time.Time, err error) {
	if endQuery != "" {
		end, err = time.Parse(time.RFC3339, endQuery)
		if err != nil {
			return
		}
	} else {
		end = time.Now()
	}
	if startQuery != "" {
		start, err = time.Parse(time.RFC3339, startQuery)
		if err != nil {
			return
		}
	} else {
		start = minStart(end)
	}
	if end.Before(start) {
		start, end = end, start
	}
	return
}

func startOfMonth(end time.Time) time.Time {
	return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func twelveMonthsTotal(end time.Time) time.Time {
	return startOfMonth(end).AddDate(0, -11, 0)
}

func getCashFlowReport(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := getStartEndTimes(c.Query("start"), c.Query("end"), twelveMonthsTotal)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		result, err := reports.CashFlow(start, end)
		if err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getAccrualReport(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := getStartEndTimes(c.Query("start"), c.Query("end"), twelveMonthsTotal)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		result, err := reports.Accrual(start, end)
		if err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getComparisonReport(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := getStartEndTimes(c.Query("start"), c.Query("end"), twelveMonthsTotal)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		result, err := reports.Comparison(start, end)
		if err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
