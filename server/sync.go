package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvminh/tally/expense"
)

// syncLookback is how far back each sync requests records. The backend holds
// the authoritative history, so re-requesting a year keeps edits in sync
const syncLookback = -12 // months

func startSync(conf Config) {
	if conf.Download == nil {
		return
	}
	end := time.Now()
	start := end.AddDate(0, syncLookback, 0)
	conf.Expenses.StartSync(start, end, conf.Download, conf.Process)
}

func postSync(conf Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if conf.Download == nil {
			abortWithClientError(c, http.StatusBadRequest, errNoBackend)
			return
		}
		startSync(conf)
		c.Status(http.StatusAccepted)
	}
}

func getSyncStatus(store *expense.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		syncing, lastErr := store.SyncStatus()
		status := struct {
			Syncing   bool
			LastError string `json:",omitempty"`
		}{Syncing: syncing}
		if lastErr != nil {
			status.LastError = lastErr.Error()
		}
		c.JSON(http.StatusOK, status)
	}
}
