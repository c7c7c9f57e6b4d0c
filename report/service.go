package report

import (
	"strings"
	"time"

	"github.com/pvminh/tally/currency"
	"github.com/pvminh/tally/expense"
	"github.com/pvminh/tally/notify"
	"golang.org/x/sync/errgroup"
)

// ExpenseSource supplies the raw expense records reports run over
type ExpenseSource interface {
	All() ([]expense.Expense, error)
}

// CashFlowReport is a cash-flow aggregate with its reporting window
type CashFlowReport struct {
	Start, End    string
	Aggregate     *Aggregate
	LargePayments []LargePayment
}

// AccrualReport is an accrual aggregate with its reporting window
type AccrualReport struct {
	Start, End        string
	Aggregate         *Aggregate
	AllocatedExpenses []AllocatedExpense
}

// ComparisonReport compares the two views over the same window.
// DisplayDifference is TotalDifference formatted for the dashboard
type ComparisonReport struct {
	Start, End        string
	Comparison        Comparison
	DisplayDifference string
}

// Service computes reports over an expense source, memoizing results in an
// injected cache
type Service struct {
	source ExpenseSource
	cache  Cache
	sink   notify.Sink
	bucket BucketFunc
}

// ServiceOpt configures a report Service
type ServiceOpt func(*Service)

// WithCache replaces the service's report cache
func WithCache(c Cache) ServiceOpt {
	return func(s *Service) {
		s.cache = c
	}
}

// WithSink replaces the service's notification sink
func WithSink(sink notify.Sink) ServiceOpt {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithAccrualBucketing replaces the accrual bucketing strategy
func WithAccrualBucketing(bucket BucketFunc) ServiceOpt {
	return func(s *Service) {
		s.bucket = bucket
	}
}

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheEntries = 64
)

// NewService builds a report service over 'source'. By default results are
// cached for a few minutes and notifications are discarded
func NewService(source ExpenseSource, opts ...ServiceOpt) *Service {
	if source == nil {
		panic("Expense source is required")
	}
	s := &Service{
		source: source,
		cache:  NewTTLCache(defaultCacheTTL, defaultCacheEntries),
		sink:   notify.Discard,
		bucket: BucketByOriginDate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CashFlow computes the cash-flow view for [start, end]
func (s *Service) CashFlow(start, end time.Time) (*CashFlowReport, error) {
	key := cacheKey("cashflow", start, end)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*CashFlowReport), nil
	}
	expenses, err := s.source.All()
	if err != nil {
		s.sink.Error("Cash-flow report failed", err)
		return nil, err
	}
	agg, largePayments := CashFlowView(expenses, start, end)
	result := &CashFlowReport{
		Start:         formatDay(start),
		End:           formatDay(end),
		Aggregate:     agg,
		LargePayments: largePayments,
	}
	s.cache.Set(key, result)
	return result, nil
}

// Accrual computes the accrual view for [start, end]
func (s *Service) Accrual(start, end time.Time) (*AccrualReport, error) {
	key := cacheKey("accrual", start, end)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*AccrualReport), nil
	}
	expenses, err := s.source.All()
	if err != nil {
		s.sink.Error("Accrual report failed", err)
		return nil, err
	}
	agg, allocated := AccrualView(expenses, start, end, WithBucketing(s.bucket))
	result := &AccrualReport{
		Start:             formatDay(start),
		End:               formatDay(end),
		Aggregate:         agg,
		AllocatedExpenses: allocated,
	}
	s.cache.Set(key, result)
	return result, nil
}

// Comparison computes both views concurrently and compares them.
// The two views read the same immutable snapshot, so they need no coordination
// beyond waiting for both to finish
func (s *Service) Comparison(start, end time.Time) (*ComparisonReport, error) {
	key := cacheKey("comparison", start, end)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*ComparisonReport), nil
	}
	expenses, err := s.source.All()
	if err != nil {
		s.sink.Error("Comparison report failed", err)
		return nil, err
	}

	var cashFlow, accrual *Aggregate
	var largePayments []LargePayment
	var group errgroup.Group
	group.Go(func() error {
		cashFlow, largePayments = CashFlowView(expenses, start, end)
		return nil
	})
	group.Go(func() error {
		accrual, _ = AccrualView(expenses, start, end, WithBucketing(s.bucket))
		return nil
	})
	if err := group.Wait(); err != nil {
		s.sink.Error("Comparison report failed", err)
		return nil, err
	}

	comparison := CompareViews(cashFlow, accrual, largePayments)
	result := &ComparisonReport{
		Start:             formatDay(start),
		End:               formatDay(end),
		Comparison:        comparison,
		DisplayDifference: currency.Format(comparison.TotalDifference, currency.DefaultCode),
	}
	s.cache.Set(key, result)
	s.sink.Success("Comparison report completed")
	return result, nil
}

func cacheKey(view string, start, end time.Time) string {
	return strings.Join([]string{view, formatDay(start), formatDay(end)}, "|")
}

func formatDay(t time.Time) string {
	return Day(t).Format(expense.DateFormat)
}
