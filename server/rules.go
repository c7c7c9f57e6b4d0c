package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/pvminh/tally/rules"
	"github.com/pvminh/tally/vcs"
)

func getRules(rulesStore *rules.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, rulesStore.CSV())
	}
}

func updateRules(rulesFile vcs.File, rulesStore *rules.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		newRules, err := rules.NewCSVRulesFromReader(c.Request.Body)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, errors.Wrap(err, "Malformed rules"))
			return
		}
		rulesStore.Replace(newRules)
		if err := rulesFile.Write([]byte(rulesStore.CSV())); err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
