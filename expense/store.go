package expense

import (
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	sErrors "github.com/pvminh/tally/errors"
	"github.com/pvminh/tally/jsondb"
	tallymath "github.com/pvminh/tally/math"
	"github.com/pvminh/tally/pipe"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const day = 24 * time.Hour

// Store manages expense records, both local edits and records synced from the backend
type Store struct {
	bucket jsondb.Bucket
	logger *zap.Logger

	syncing     *atomic.Bool
	lastSyncErr *atomic.Error
}

// Downloader fetches expense records spent between the start and end dates
type Downloader func(start, end time.Time) ([]Expense, error)

// NewStore returns the expenses bucket
func NewStore(db jsondb.DB, logger *zap.Logger) (*Store, error) {
	bucket, err := db.Bucket("expenses", "1", &storeUpgrader{})
	return &Store{
		bucket:      bucket,
		logger:      logger,
		syncing:     atomic.NewBool(false),
		lastSyncErr: atomic.NewError(nil),
	}, err
}

// Add validates and writes the expense. A missing ID is generated
func (s *Store) Add(e Expense) (Expense, error) {
	if err := e.Validate(); err != nil {
		return e, err
	}
	if e.ID == "" {
		e.ID = strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return e, s.bucket.Put(e.ID, e)
}

// Get reads the expense with the given ID
func (s *Store) Get(id string) (Expense, bool, error) {
	var e Expense
	found, err := s.bucket.Get(id, &e)
	return e, found, err
}

// Remove deletes the expense with the given ID
func (s *Store) Remove(id string) error {
	if id == "" {
		return errors.New("Expense ID is required")
	}
	return s.bucket.Delete(id)
}

// All returns every stored expense, ordered oldest first
func (s *Store) All() ([]Expense, error) {
	var expenses []Expense
	var e Expense
	err := s.bucket.Iter(&e, func(id string) bool {
		expenses = append(expenses, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	sortExpenses(expenses)
	return expenses, nil
}

// QueryResult is one page of expenses, newest last
type QueryResult struct {
	Count    int
	Page     int
	Results  int
	Expenses []Expense
}

// Query returns the requested page counted backward from the most recent expense
func (s *Store) Query(page, results int) (QueryResult, error) {
	if page < 1 || results < 1 {
		panic("Page and results must be >= 1")
	}
	expenses, err := s.All()
	if err != nil {
		return QueryResult{}, err
	}
	start, end := paginateFromEnd(page, results, len(expenses))
	return QueryResult{
		Count:    len(expenses),
		Page:     page,
		Results:  results,
		Expenses: expenses[start:end],
	}, nil
}

// assumes all parameters are > 0
func paginateFromEnd(page, results, size int) (start, end int) {
	if size == 0 {
		return
	}
	start = tallymath.MaxInt(size-page*results, 0)
	end = tallymath.MinInt(size-(page-1)*results, size)
	end = tallymath.MaxInt(end, 0)
	return
}

func sortExpenses(expenses []Expense) {
	sort.Slice(expenses, func(a, b int) bool {
		if expenses[a].Date.Equal(expenses[b].Date) {
			return expenses[a].ID < expenses[b].ID
		}
		return expenses[a].Date.Before(expenses[b].Date)
	})
}

// StartSync asynchronously downloads expenses between the start and end dates
// and merges them into the store. 'process' may mutate downloaded records
// before they're written, e.g. to apply category rules.
// No-op if a sync is already running
func (s *Store) StartSync(start, end time.Time, download Downloader, process func([]Expense)) {
	if !s.syncing.CAS(false, true) {
		// sync already running
		return
	}
	go func() {
		err := s.sync(start, end, download, process)
		s.syncing.Store(false)
		s.lastSyncErr.Store(err)
		if err != nil {
			s.logger.Error("Error syncing expenses", zap.Error(err))
		}
	}()
}

// SyncStatus returns whether a sync is running and the most recent sync error
func (s *Store) SyncStatus() (syncing bool, lastSyncErr error) {
	return s.syncing.Load(), s.lastSyncErr.Load()
}

func (s *Store) sync(start, end time.Time, download Downloader, process func([]Expense)) error {
	// backends cap response sizes, so request in month-sized chunks
	const maxDownloadDuration = 30 * day

	var allExpenses []Expense
	var errs sErrors.Errors
	downloadStart := start
	for downloadStart.Before(end) {
		downloadEnd := minTime(end, downloadStart.Add(maxDownloadDuration))
		s.logger.Info("Downloading expenses...", zap.Time("start", downloadStart), zap.Time("end", downloadEnd))
		expenses, err := download(downloadStart, downloadEnd)
		errs.AddErr(err)
		allExpenses = append(allExpenses, expenses...)
		downloadStart = downloadEnd
	}
	if len(errs) == 0 {
		s.logger.Info("Download succeeded", zap.Int("expenses", len(allExpenses)))
	} else {
		s.logger.Warn("Failed to download some expenses", zap.Error(errs))
	}

	if process != nil {
		process(allExpenses)
	}

	var ops pipe.OpFuncs
	for i := range allExpenses {
		e := allExpenses[i]
		if e.ID == "" {
			// records without backend IDs can't be deduplicated, skip them
			s.logger.Warn("Skipping expense without ID", zap.String("description", e.Description))
			continue
		}
		ops = append(ops, func() error {
			return s.bucket.Put(e.ID, e)
		})
	}
	if err := ops.Do(); err != nil {
		return err
	}
	return errs.ErrOrNil()
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
