package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/pvminh/tally/expense"
)

// MaxResults is the maximum number of results from a paginated request
const MaxResults = 50

func getExpenses(store *expense.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var page, results int = 1, 10
		if pageQuery, ok := c.GetQuery("page"); ok {
			if parsedPage, err := strconv.ParseInt(pageQuery, 10, 64); err != nil {
				c.Error(errors.Errorf("Invalid integer: %s", pageQuery))
			} else if parsedPage < 1 {
				c.Error(errors.New("Page must be a positive integer"))
			} else {
				page = int(parsedPage)
			}
		}
		if resultsQuery, ok := c.GetQuery("results"); ok {
			if parsedResults, err := strconv.ParseInt(resultsQuery, 10, 64); err != nil {
				c.Error(errors.Errorf("Invalid integer: %s", resultsQuery))
			} else if parsedResults < 1 || parsedResults > MaxResults {
				c.Error(errors.Errorf("Results must be a positive integer no more than %d", MaxResults))
			} else {
				results = int(parsedResults)
			}
		}
		if len(c.Errors) > 0 {
			errMsg := ""
			for _, e := range c.Errors {
				errMsg += e.Error() + "\n"
			}
			abortWithClientError(c, http.StatusBadRequest, errors.New(errMsg))
			return
		}

		result, err := store.Query(page, results)
		if err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func updateExpense(store *expense.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var e expense.Expense
		if err := c.BindJSON(&e); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		e, err := store.Add(e)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusOK, map[string]string{"ID": e.ID})
	}
}

func deleteExpense(store *expense.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			abortWithClientError(c, http.StatusBadRequest, errors.New("Expense ID is required"))
			return
		}
		if err := store.Remove(id); err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
