// Package checkout drives the order conversation from cart to a
// persisted order.
package checkout

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/metrics"
	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/notify"
	"github.com/sushi-aurum/orderbot/internal/order"
	"github.com/sushi-aurum/orderbot/internal/session"
)

// CommentSkip is the sentinel users type to leave the comment empty.
const CommentSkip = "-"

// Machine advances a user's checkout conversation. Each submit method
// checks the current stage first and rejects input that belongs to a
// different stage, leaving the draft untouched.
type Machine struct {
	sessions *session.Store
	carts    *cart.Engine
	orders   order.Repository
	notifier notify.Notifier
}

// NewMachine wires the checkout over its collaborators. notifier may
// be nil when no notification channel is configured.
func NewMachine(sessions *session.Store, carts *cart.Engine, orders order.Repository, notifier notify.Notifier) *Machine {
	return &Machine{sessions: sessions, carts: carts, orders: orders, notifier: notifier}
}

// Stage returns the user's current checkout stage.
func (m *Machine) Stage(userID int64) session.Stage {
	return m.sessions.Stage(userID)
}

// InProgress reports whether the user has an active checkout.
func (m *Machine) InProgress(userID int64) bool {
	return m.sessions.Stage(userID) != session.StageIdle
}

// Begin starts a checkout for the user's current cart. Starting over
// an already active checkout discards the previous draft. An empty
// cart cannot be checked out.
func (m *Machine) Begin(userID int64, lang string) error {
	summary := m.carts.Totals(userID, lang)
	if summary.Empty() {
		return domain.ErrEmptyCart
	}

	m.sessions.Update(userID, func(s *session.Session) {
		s.Draft = session.Draft{Stage: session.StageDeliveryChoice}
	})
	logger.Checkout.Info("checkout.started",
		slog.Int64("user_id", userID),
		slog.Int("lines", len(summary.Lines)),
	)
	return nil
}

// Cancel drops any checkout in progress. The cart is kept.
func (m *Machine) Cancel(userID int64) {
	m.sessions.Update(userID, func(s *session.Session) {
		s.ResetDraft()
	})
}

// ChooseDelivery records the delivery/pickup decision. Delivery asks
// for an address next; pickup goes straight to the phone number.
func (m *Machine) ChooseDelivery(userID int64, raw string) (session.Stage, error) {
	if m.sessions.Stage(userID) != session.StageDeliveryChoice {
		return session.StageIdle, domain.ErrInvalidStage
	}
	mode, err := domain.ParseDeliveryMode(raw)
	if err != nil {
		return session.StageIdle, err
	}

	next := session.StagePhone
	if mode == domain.ModeDelivery {
		next = session.StageAddress
	}
	m.sessions.Update(userID, func(s *session.Session) {
		s.Draft.Mode = mode
		s.Draft.Stage = next
	})
	return next, nil
}

// SubmitAddress records the delivery address and advances to the phone
// number.
func (m *Machine) SubmitAddress(userID int64, text string) error {
	if m.sessions.Stage(userID) != session.StageAddress {
		return domain.ErrInvalidStage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyInput
	}
	m.sessions.Update(userID, func(s *session.Session) {
		s.Draft.Address = text
		s.Draft.Stage = session.StagePhone
	})
	return nil
}

// SubmitPhone records the contact phone and advances to the comment.
func (m *Machine) SubmitPhone(userID int64, text string) error {
	if m.sessions.Stage(userID) != session.StagePhone {
		return domain.ErrInvalidStage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyInput
	}
	m.sessions.Update(userID, func(s *session.Session) {
		s.Draft.Phone = text
		s.Draft.Stage = session.StageComment
	})
	return nil
}

// SubmitComment records the optional comment and finalizes the order.
// The sentinel "-" stores an empty comment. On persistence failure the
// draft stays at the comment stage so the user can retry.
func (m *Machine) SubmitComment(ctx context.Context, userID int64, text string) (*domain.Order, error) {
	if m.sessions.Stage(userID) != session.StageComment {
		return nil, domain.ErrInvalidStage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyInput
	}
	if text == CommentSkip {
		text = ""
	}
	m.sessions.Update(userID, func(s *session.Session) {
		s.Draft.Comment = text
	})
	return m.finalize(ctx, userID)
}

// finalize snapshots the cart at current catalog prices, persists the
// order and resets the conversation.
func (m *Machine) finalize(ctx context.Context, userID int64) (*domain.Order, error) {
	sess := m.sessions.Snapshot(userID)
	summary := m.carts.Totals(userID, sess.Lang)
	if summary.Empty() {
		m.Cancel(userID)
		return nil, domain.ErrEmptyCart
	}

	fee := decimal.Zero
	total := summary.Merchandise
	if sess.Draft.Mode == domain.ModeDelivery {
		fee = summary.DeliveryFee
		total = summary.Payable
	}

	o := &domain.Order{
		Number:      domain.NewOrderNumber(),
		UserID:      userID,
		Lang:        sess.Lang,
		Total:       total,
		DeliveryFee: fee,
		Mode:        sess.Draft.Mode,
		Address:     sess.Draft.Address,
		Phone:       sess.Draft.Phone,
		Comment:     sess.Draft.Comment,
		Status:      domain.StatusNew,
	}
	for _, line := range summary.Lines {
		o.Lines = append(o.Lines, domain.OrderLine{
			ItemID:    line.ItemID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	stored, err := m.orders.Create(ctx, o)
	if err != nil {
		logger.Checkout.Error("checkout.persist_failed",
			slog.String("rid", logger.RIDFrom(ctx)),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	m.carts.Clear(userID)
	m.Cancel(userID)
	metrics.OrdersCreated.WithLabelValues(string(stored.Mode)).Inc()

	logger.Checkout.Info("checkout.finalized",
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("order_id", stored.ID),
		slog.String("order_number", stored.Number),
		slog.String("mode", string(stored.Mode)),
		slog.String("total", stored.Total.StringFixed(2)),
	)

	if m.notifier != nil {
		// Best effort: notification failures never undo the order.
		_ = m.notifier.OrderPlaced(ctx, stored)
	}
	return stored, nil
}
