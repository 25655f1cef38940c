package main

import (
	"context"
	"log"
	"time"
)

type OrderSource interface {
	FetchOrders(ctx context.Context, start, end time.Time) ([]Order, error)
}

type RateSource interface {
	FetchRates(ctx context.Context, asOf time.Time) (RateSnapshot, error)
}

// SummaryStore is append-only: summaries are never updated or deleted, and
// LatestSummary is defined by store insertion order.
type SummaryStore interface {
	SummaryByLabel(ctx context.Context, label string) (*WeeklySummary, error)
	LatestSummary(ctx context.Context) (*WeeklySummary, error)
	AppendOrderRows(ctx context.Context, orders []Order, weekLabel string) error
	AppendSummary(ctx context.Context, summary WeeklySummary) error
}

type ReportGenerator interface {
	GenerateReport(ctx context.Context, summary WeeklySummary) (string, error)
	GenerateExecutiveSummary(ctx context.Context, report string) (string, error)
}

type Notifier interface {
	PostNotification(ctx context.Context, report, execSummary, weekLabel string) error
}

// WeeklyReportJob runs the full weekly pipeline: resolve the previous week,
// gate on an existing summary, fetch orders and rates, aggregate, persist,
// then generate and post the report. Strictly sequential, no retries; the
// report is re-sent on every invocation even when the summary already exists.
type WeeklyReportJob struct {
	Orders   OrderSource
	Rates    RateSource
	Store    SummaryStore
	Reporter ReportGenerator
	Notifier Notifier

	UnknownCurrencyPolicy string
	Now                   func() time.Time // nil means time.Now
}

type RunResult struct {
	Week           string
	Orders         int
	AlreadyExisted bool
}

func (j *WeeklyReportJob) Run(ctx context.Context) (RunResult, error) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	week := lastWeekRange(now())
	log.Printf("weekly report run week=%s start=%s end=%s",
		week.Label, week.Start.Format("2006-01-02"), week.End.Format("2006-01-02"))

	existing, err := j.Store.SummaryByLabel(ctx, week.Label)
	if err != nil {
		return RunResult{}, &FetchError{Collaborator: "store", Err: err}
	}
	if existing != nil {
		if err := j.dispatch(ctx, *existing); err != nil {
			return RunResult{}, err
		}
		log.Printf("weekly report week=%s already existed; report re-sent", week.Label)
		return RunResult{Week: week.Label, Orders: existing.OrderCount, AlreadyExisted: true}, nil
	}

	orders, err := j.Orders.FetchOrders(ctx, week.Start, week.End)
	if err != nil {
		return RunResult{}, &FetchError{Collaborator: "orders", Err: err}
	}
	log.Printf("weekly report week=%s orders=%d", week.Label, len(orders))

	rates, err := j.Rates.FetchRates(ctx, week.End)
	if err != nil {
		return RunResult{}, &FetchError{Collaborator: "rates", Err: err}
	}

	if err := j.Store.AppendOrderRows(ctx, orders, week.Label); err != nil {
		return RunResult{}, &PersistError{Err: err}
	}

	summary := aggregateOrders(orders, rates, j.UnknownCurrencyPolicy)
	summary.WeekLabel = week.Label
	summary.StartDate = week.Start
	summary.EndDate = week.End

	// Week-over-week link: most recently appended summary, by store
	// insertion order.
	prev, err := j.Store.LatestSummary(ctx)
	if err != nil {
		return RunResult{}, &FetchError{Collaborator: "store", Err: err}
	}
	if prev != nil {
		prevRevenue := prev.TotalRevenueDKK
		summary.PrevWeekRevenueDKK = &prevRevenue
	}

	if err := j.Store.AppendSummary(ctx, summary); err != nil {
		return RunResult{}, &PersistError{Err: err}
	}

	if err := j.dispatch(ctx, summary); err != nil {
		return RunResult{}, err
	}

	return RunResult{Week: week.Label, Orders: summary.OrderCount}, nil
}

func (j *WeeklyReportJob) dispatch(ctx context.Context, summary WeeklySummary) error {
	report, err := j.Reporter.GenerateReport(ctx, summary)
	if err != nil {
		return &FetchError{Collaborator: "report", Err: err}
	}
	execSummary, err := j.Reporter.GenerateExecutiveSummary(ctx, report)
	if err != nil {
		return &FetchError{Collaborator: "report", Err: err}
	}
	if err := j.Notifier.PostNotification(ctx, report, execSummary, summary.WeekLabel); err != nil {
		return &NotifyError{Err: err}
	}
	return nil
}
