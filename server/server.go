package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pvminh/tally/expense"
	"github.com/pvminh/tally/report"
	"github.com/pvminh/tally/rules"
	"github.com/pvminh/tally/vcs"
	"go.uber.org/zap"
)

const (
	syncInterval = 4 * time.Hour
	loggerKey    = "logger"
)

// Config wires the server's collaborators together
type Config struct {
	Addr      string
	Expenses  *expense.Store
	Reports   *report.Service
	Rules     *rules.Store
	RulesFile vcs.File
	Download  expense.Downloader
	Process   func([]expense.Expense)
	AutoSync  bool
	Logger    *zap.Logger
}

// Run starts the HTTP server and, when AutoSync is set, a background sync loop.
// Blocks until the server stops
func Run(conf Config) error {
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(conf.Logger, time.RFC3339, true),
		recovery(conf.Logger, true),
	)

	api := engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(loggerKey, conf.Logger)
	})
	setupAPI(api, conf)

	done := make(chan bool, 1)
	errs := make(chan error, 2)

	if conf.AutoSync {
		go func() {
			// give gin time to boot before kicking off the first sync
			time.Sleep(2 * time.Second)
			startSync(conf)
			ticker := time.NewTicker(syncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					startSync(conf)
				}
			}
		}()
	}

	go func() {
		conf.Logger.Info("Starting server", zap.String("addr", conf.Addr))
		errs <- engine.Run(conf.Addr)
		done <- true
	}()

	return <-errs
}

func setupAPI(router gin.IRouter, conf Config) {
	router.GET("/version", getVersion(http.DefaultClient, "api.github.com", "pvminh/tally"))

	router.GET("/expenses", getExpenses(conf.Expenses))
	router.POST("/expenses", updateExpense(conf.Expenses))
	router.DELETE("/expenses", deleteExpense(conf.Expenses))

	router.GET("/reports/cashflow", getCashFlowReport(conf.Reports))
	router.GET("/reports/accrual", getAccrualReport(conf.Reports))
	router.GET("/reports/comparison", getComparisonReport(conf.Reports))

	router.GET("/rules", getRules(conf.Rules))
	router.PUT("/rules", updateRules(conf.RulesFile, conf.Rules))

	router.POST("/sync", postSync(conf))
	router.GET("/sync", getSyncStatus(conf.Expenses))
}

func abortWithClientError(c *gin.Context, status int, err error) {
	logger := c.MustGet(loggerKey).(*zap.Logger)
	logger.WithOptions(zap.AddCallerSkip(1))
	if status/100 == 5 {
		logger.Error("Aborting with server error", zap.Error(err))
	} else {
		logger.Info("Aborting with client error", zap.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, map[string]string{
		"Error": err.Error(),
	})
}
