package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/gamma-omg/backtester/internal/ledger"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/order"
	"github.com/gamma-omg/backtester/internal/strategy"
	"github.com/shopspring/decimal"
)

var ErrFinished = errors.New("simulation finished")

type State int

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state_%d", int(s))
	}
}

type barSource interface {
	BarAt(step int) market.Snapshot
	Steps() int
}

type corporateActions interface {
	Dividend(symbol string, t time.Time) (decimal.Decimal, bool)
	Split(symbol string, t time.Time) (decimal.Decimal, bool)
	ActionSymbols() []string
}

type Options struct {
	Cash   decimal.Decimal
	Book   []order.BookOption
	Ledger []ledger.Option

	// ClearPending drops every resting order at the end of each step.
	ClearPending bool
}

// Point is the account value after one step.
type Point struct {
	Time   time.Time
	Cash   decimal.Decimal
	Equity decimal.Decimal
}

type Result struct {
	Steps     int
	StartCash decimal.Decimal
	EndCash   decimal.Decimal
	Equity    decimal.Decimal
	Positions map[string]int64
	Fills     []ledger.Fill
	Curve     []Point
}

// Engine replays bars from a source through a strategy. It owns the order
// book and the ledger for the lifetime of one run.
type Engine struct {
	log       *slog.Logger
	src       barSource
	actions   corporateActions
	strat     strategy.Strategy
	book      *order.Book
	ledger    *ledger.Ledger
	orders    *strategy.Orders
	opts      Options
	state     State
	step      int
	steps     int
	lastDates map[string]string
	lastSnap  market.Snapshot
	fills     []ledger.Fill
	curve     []Point
}

func New(log *slog.Logger, src barSource, actions corporateActions, strat strategy.Strategy, opts Options) *Engine {
	book := order.NewBook(log, opts.Book...)
	return &Engine{
		log:       log,
		src:       src,
		actions:   actions,
		strat:     strat,
		book:      book,
		ledger:    ledger.New(log, opts.Cash, opts.Ledger...),
		orders:    strategy.NewOrders(book),
		opts:      opts,
		steps:     src.Steps(),
		lastDates: make(map[string]string),
	}
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Portfolio() ledger.View {
	return e.ledger.View()
}

// Step advances the simulation by one bar. It returns ErrFinished once every
// step has been replayed.
func (e *Engine) Step(ctx context.Context) error {
	if e.state == Finished {
		return ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.step >= e.steps {
		e.finish()
		return ErrFinished
	}
	e.state = Running

	snap := e.src.BarAt(e.step)
	e.applyActions(snap)

	if err := e.strat.OnBar(ctx, snap, e.ledger.View(), e.orders); err != nil {
		e.log.Error("strategy failed", slog.Int("step", e.step), slog.Any("error", err))
	}

	executed := e.book.Process(snap)
	e.fills = append(e.fills, e.ledger.Apply(executed, snap)...)
	if e.opts.ClearPending {
		e.book.Clear()
	}

	e.curve = append(e.curve, Point{
		Time:   latest(snap),
		Cash:   e.ledger.Cash(),
		Equity: e.ledger.Equity(snap),
	})
	e.lastSnap = snap
	e.step++

	if e.step == e.steps {
		e.finish()
	}
	return nil
}

// Run replays every remaining step and returns the outcome.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.state == Finished {
		return Result{}, ErrFinished
	}

	e.log.Info("backtest started", slog.Int("steps", e.steps), slog.String("cash", e.opts.Cash.String()))
	for e.state != Finished {
		if err := e.Step(ctx); err != nil && !errors.Is(err, ErrFinished) {
			return Result{}, fmt.Errorf("backtest aborted at step %d: %w", e.step, err)
		}
	}

	res := e.Result()
	e.log.Info("backtest finished",
		slog.Int("fills", len(res.Fills)),
		slog.String("cash", res.EndCash.String()),
		slog.String("equity", res.Equity.String()))
	return res, nil
}

func (e *Engine) Result() Result {
	return Result{
		Steps:     e.step,
		StartCash: e.opts.Cash,
		EndCash:   e.ledger.Cash(),
		Equity:    e.ledger.Equity(e.lastSnap),
		Positions: e.ledger.Positions(),
		Fills:     append([]ledger.Fill(nil), e.fills...),
		Curve:     append([]Point(nil), e.curve...),
	}
}

func (e *Engine) finish() {
	e.state = Finished
	e.book.Clear()
}

// applyActions credits dividends and applies splits on the first bar of each
// calendar date of a symbol. Dividends are paid on the pre-split position.
func (e *Engine) applyActions(snap market.Snapshot) {
	if e.actions == nil {
		return
	}

	for _, symbol := range e.actions.ActionSymbols() {
		bar, ok := snap[symbol]
		if !ok {
			continue
		}

		date := market.DateKey(bar.Time)
		if e.lastDates[symbol] == date {
			continue
		}
		e.lastDates[symbol] = date

		if payout, ok := e.actions.Dividend(symbol, bar.Time); ok {
			pos := e.ledger.Position(symbol)
			amount := payout.Mul(decimal.NewFromInt(pos))
			e.ledger.AddCash(amount)
			e.log.Info("dividend paid",
				slog.String("symbol", symbol),
				slog.String("date", date),
				slog.Int64("position", pos),
				slog.String("amount", amount.String()))
		}

		if ratio, ok := e.actions.Split(symbol, bar.Time); ok {
			before := e.ledger.Position(symbol)
			e.ledger.Split(symbol, ratio)
			e.log.Info("split applied",
				slog.String("symbol", symbol),
				slog.String("date", date),
				slog.String("ratio", ratio.String()),
				slog.Int64("before", before),
				slog.Int64("after", e.ledger.Position(symbol)))
		}
	}
}

func latest(snap market.Snapshot) time.Time {
	var t time.Time
	for b := range maps.Values(snap) {
		if b.Time.After(t) {
			t = b.Time
		}
	}
	return t
}
