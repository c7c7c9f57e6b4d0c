package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pvminh/tally/consts"
	"github.com/pvminh/tally/expense"
	"github.com/pvminh/tally/jsondb"
	"github.com/pvminh/tally/notify"
	"github.com/pvminh/tally/proxyapi"
	"github.com/pvminh/tally/report"
	"github.com/pvminh/tally/rules"
	"github.com/pvminh/tally/server"
	"github.com/pvminh/tally/vcs"
	"go.uber.org/zap"
)

func usage(flagSet *flag.FlagSet) string {
	oldOutput := flagSet.Output()
	buf := bytes.NewBuffer(nil)
	flagSet.SetOutput(buf)
	flagSet.Usage()
	flagSet.SetOutput(oldOutput)
	return buf.String()
}

func requireFlags(flagSet *flag.FlagSet) (err error) {
	setFlags := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	var missingFlags []string
	flagSet.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Usage, "Required: ") && !setFlags[f.Name] {
			missingFlags = append(missingFlags, f.Name)
		}
	})
	if len(missingFlags) > 0 {
		return errors.Errorf("Missing required flags: %s", missingFlags)
	}
	return nil
}

// loadRules reads category rules from a version-controlled CSV file.
// A missing file means no rules yet
func loadRules(rulesFile vcs.File, fileName string) (rules.Rules, error) {
	buf, err := rulesFile.Read()
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Error opening rules file '%s'", fileName)
	}
	r, err := rules.NewCSVRulesFromReader(bytes.NewReader(buf))
	return r, errors.Wrapf(err, "Error reading rules from file '%s'", fileName)
}

func run() (usageErr bool, err error) {
	flagSet := flag.NewFlagSet("tally", flag.ContinueOnError)
	serverPort := flagSet.Uint("port", 8080, "Sets the port the server listens on")
	dbDirName := flagSet.String("data", "", "Required: Path to a database directory")
	rulesFileName := flagSet.String("rules", "", "Path to a category rules CSV file. Defaults to rules.csv in the data directory")
	noSyncLoop := flagSet.Bool("no-auto-sync", false, "Disables backend auto-sync")
	requestVersion := flagSet.Bool("version", false, "Print the version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return true, err
	}
	if *requestVersion {
		fmt.Println(consts.Version)
		return false, nil
	}
	if err := requireFlags(flagSet); err != nil {
		return true, errors.Errorf("%s\n%s", err.Error(), usage(flagSet))
	}

	// .env carries deploy settings like BACKEND_URL. Missing files are fine
	_ = godotenv.Load()

	var logger *zap.Logger
	if os.Getenv("DEVELOPMENT") == "true" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return false, err
	}

	var repo vcs.Repository
	db, err := jsondb.Open(*dbDirName, jsondb.VersionControl(&repo))
	if err != nil {
		return false, err
	}
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		s := <-c
		logger.Info("Handling signal", zap.String("signal", s.String()))
		if err := db.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
			os.Exit(1)
		}
		os.Exit(0)
	}()

	expenses, err := expense.NewStore(db, logger)
	if err != nil {
		return false, err
	}

	rulesPath := *rulesFileName
	if rulesPath == "" {
		rulesPath = filepath.Join(*dbDirName, "rules.csv")
	}
	rulesFile := repo.File(rulesPath)
	categoryRules, err := loadRules(rulesFile, rulesPath)
	if err != nil {
		return false, err
	}
	rulesStore := rules.NewStore(categoryRules)

	var download expense.Downloader
	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		backend, err := proxyapi.New(backendURL)
		if err != nil {
			return false, err
		}
		download = func(start, end time.Time) ([]expense.Expense, error) {
			return backend.Expenses(context.Background(), start, end)
		}
	} else {
		logger.Warn("BACKEND_URL is not set, backend sync disabled")
	}

	reports := report.NewService(expenses, report.WithSink(notify.NewZapSink(logger)))

	gin.SetMode(gin.ReleaseMode)
	return false, server.Run(server.Config{
		Addr:      fmt.Sprintf("0.0.0.0:%d", *serverPort),
		Expenses:  expenses,
		Reports:   reports,
		Rules:     rulesStore,
		RulesFile: rulesFile,
		Download:  download,
		Process:   rulesStore.ApplyAll,
		AutoSync:  !*noSyncLoop && download != nil,
		Logger:    logger,
	})
}

func main() {
	usageErr, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if usageErr {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
