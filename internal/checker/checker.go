// Package checker は 1 回分の照合実行を統括する。
// カレンダー取得とレセプト読み込み → 正規化 → 結合 → 照合 → レポート組み立て
// のパイプラインを順に流し、実行履歴を保存する。
package checker

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Fukuemon/receipt-checker/internal/model"
	"github.com/Fukuemon/receipt-checker/internal/normalize"
	"github.com/Fukuemon/receipt-checker/internal/reconcile"
	"github.com/Fukuemon/receipt-checker/internal/rule"
	"github.com/Fukuemon/receipt-checker/internal/source"
	"github.com/Fukuemon/receipt-checker/internal/store"
)

// CalendarFetcher カレンダーソースの境界
type CalendarFetcher interface {
	Fetch(ctx context.Context, ids []string) ([]model.RawVisit, error)
}

// AlertSender アラート境界。nil 可（通知無効時）
type AlertSender interface {
	SendAlerts(ctx context.Context, rows []model.ReportRow) int
}

// Checker 照合の実行本体
type Checker struct {
	calendar CalendarFetcher
	table    *rule.Table
	alerts   AlertSender
	store    *store.Store
	log      *logrus.Logger

	running atomic.Bool
}

// New Checker を生成する。alerts・runStore は nil でもよい
func New(calendar CalendarFetcher, table *rule.Table, alerts AlertSender, runStore *store.Store, logger *logrus.Logger) *Checker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Checker{
		calendar: calendar,
		table:    table,
		alerts:   alerts,
		store:    runStore,
		log:      logger,
	}
}

// Options 1 回分の照合の入力
type Options struct {
	ReceiptFile     io.Reader
	ReceiptFilename string
	CalendarIDs     []string // 空なら全カレンダー
	SendAlerts      bool
}

// Result 照合結果
type Result struct {
	RunID   string            `json:"runId"`
	Summary model.Summary     `json:"summary"`
	Rows    []model.ReportRow `json:"rows"`
	Alerts  int               `json:"alertsSent"`
}

// ErrRunInProgress 別の照合が実行中
var ErrRunInProgress = errors.New("別の照合を実行中です。完了を待ってから再実行してください")

// Run 照合を 1 回実行する
// 同時実行は 1 件のみ。どちらかのソース取得に失敗した場合は
// 部分的な結果を作らず実行全体を失敗にする
func (c *Checker) Run(ctx context.Context, opts Options) (*Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer c.running.Store(false)

	runID := uuid.New().String()
	logID := c.createRunLog(runID, opts.ReceiptFilename)

	result, err := c.run(ctx, runID, opts)
	if err != nil {
		c.failRunLog(logID, err)
		return nil, err
	}

	c.completeRunLog(logID, result)
	return result, nil
}

func (c *Checker) run(ctx context.Context, runID string, opts Options) (*Result, error) {
	c.log.WithFields(logrus.Fields{
		"run_id":  runID,
		"receipt": opts.ReceiptFilename,
	}).Info("照合を開始します")

	// カレンダー取得とレセプト読み込みはデータ依存がないので並行で行う。
	// 両方成功しなければ結合には進まない
	type fetchResult struct {
		visits []model.RawVisit
		err    error
	}
	calendarCh := make(chan fetchResult, 1)
	go func() {
		visits, err := c.calendar.Fetch(ctx, opts.CalendarIDs)
		calendarCh <- fetchResult{visits: visits, err: err}
	}()

	rawIbow, ibowErr := source.ParseReceipt(opts.ReceiptFile, opts.ReceiptFilename)
	calendarRes := <-calendarCh

	if calendarRes.err != nil {
		return nil, calendarRes.err
	}
	if ibowErr != nil {
		return nil, ibowErr
	}

	calendar, err := normalize.Records(calendarRes.visits, "カレンダー")
	if err != nil {
		return nil, err
	}
	ibow, err := normalize.Records(rawIbow, "Ibow")
	if err != nil {
		return nil, err
	}

	matchResult := reconcile.Match(calendar, ibow)
	matchResult.Joint = reconcile.NewValidator(c.table).Validate(matchResult.Joint)
	rows, summary := reconcile.Render(matchResult)

	result := &Result{
		RunID:   runID,
		Summary: summary,
		Rows:    rows,
	}

	if opts.SendAlerts && c.alerts != nil && summary.Mismatched > 0 {
		result.Alerts = c.alerts.SendAlerts(ctx, rows)
	}

	c.log.WithFields(logrus.Fields{
		"run_id":        runID,
		"matched":       summary.Matched,
		"mismatched":    summary.Mismatched,
		"calendar_only": summary.CalendarOnly,
		"ibow_only":     summary.IbowOnly,
		"alerts_sent":   result.Alerts,
	}).Info("照合が完了しました")

	return result, nil
}

// 履歴保存は照合本体の成否に影響させない（失敗はログに残すだけ）

func (c *Checker) createRunLog(runID, filename string) int64 {
	if c.store == nil {
		return 0
	}
	id, err := c.store.CreateRunLog(runID, filename)
	if err != nil {
		c.log.WithField("error", err.Error()).Warn("実行履歴の作成に失敗しました")
		return 0
	}
	return id
}

func (c *Checker) completeRunLog(logID int64, result *Result) {
	if c.store == nil || logID == 0 {
		return
	}
	if err := c.store.CompleteRunLog(logID, result.Summary, result.Alerts); err != nil {
		c.log.WithField("error", err.Error()).Warn("実行履歴の更新に失敗しました")
	}
}

func (c *Checker) failRunLog(logID int64, runErr error) {
	if c.store == nil || logID == 0 {
		return
	}
	if err := c.store.FailRunLog(logID, runErr.Error()); err != nil {
		c.log.WithField("error", err.Error()).Warn("実行履歴の更新に失敗しました")
	}
}
