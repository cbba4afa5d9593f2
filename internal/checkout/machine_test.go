package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/notify"
	"github.com/sushi-aurum/orderbot/internal/order"
	"github.com/sushi-aurum/orderbot/internal/session"
)

type fixture struct {
	sessions *session.Store
	carts    *cart.Engine
	orders   *order.MemoryRepository
	machine  *Machine
}

func newFixture(t *testing.T, notifier notify.Notifier) *fixture {
	t.Helper()
	cats := []catalog.Category{{ID: "rolls", Titles: map[string]string{"ru": "Роллы"}}}
	items := []catalog.Item{
		{ID: "item_a", CategoryID: "rolls", Titles: map[string]string{"ru": "А"}, Price: decimal.RequireFromString("5.00")},
		{ID: "item_b", CategoryID: "rolls", Titles: map[string]string{"ru": "Б"}, Price: decimal.RequireFromString("8.00")},
	}
	policy := catalog.DeliveryPolicy{
		Fee:      decimal.RequireFromString("2.00"),
		FreeOver: decimal.RequireFromString("20.00"),
	}
	sessions := session.NewStore("ru")
	carts := cart.NewEngine(catalog.New(cats, items, policy), sessions)
	orders := order.NewMemoryRepository()
	return &fixture{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		machine:  NewMachine(sessions, carts, orders, notifier),
	}
}

func (f *fixture) fillCart(t *testing.T, userID int64) {
	t.Helper()
	for i := 0; i < 2; i++ {
		if _, err := f.carts.AddItem(userID, "item_a"); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if _, err := f.carts.AddItem(userID, "item_b"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
}

func TestBeginEmptyCart(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.machine.Begin(1, "ru"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if f.machine.InProgress(1) {
		t.Fatalf("no checkout must start on an empty cart")
	}
}

func TestBeginRestartDiscardsDraft(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)

	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := f.machine.ChooseDelivery(1, "delivery"); err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if err := f.machine.SubmitAddress(1, "Keizersgracht 1"); err != nil {
		t.Fatalf("SubmitAddress: %v", err)
	}

	// Starting over throws away everything collected so far.
	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("restart Begin: %v", err)
	}
	if got := f.machine.Stage(1); got != session.StageDeliveryChoice {
		t.Fatalf("expected delivery choice after restart, got %v", got)
	}
	snap := f.sessions.Snapshot(1)
	if snap.Draft.Address != "" || snap.Draft.Mode != "" {
		t.Fatalf("restart must clear the draft, got %+v", snap.Draft)
	}
}

func TestWrongStageInputsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)
	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Only the delivery choice is valid right now.
	if err := f.machine.SubmitAddress(1, "somewhere"); !errors.Is(err, domain.ErrInvalidStage) {
		t.Fatalf("address at choice stage: expected ErrInvalidStage, got %v", err)
	}
	if err := f.machine.SubmitPhone(1, "0612345678"); !errors.Is(err, domain.ErrInvalidStage) {
		t.Fatalf("phone at choice stage: expected ErrInvalidStage, got %v", err)
	}
	if _, err := f.machine.SubmitComment(context.Background(), 1, "hi"); !errors.Is(err, domain.ErrInvalidStage) {
		t.Fatalf("comment at choice stage: expected ErrInvalidStage, got %v", err)
	}
	if got := f.machine.Stage(1); got != session.StageDeliveryChoice {
		t.Fatalf("rejected input must not move the stage, got %v", got)
	}
}

func TestChooseDeliveryValidation(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)
	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := f.machine.ChooseDelivery(1, "teleport"); !errors.Is(err, domain.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	next, err := f.machine.ChooseDelivery(1, "delivery")
	if err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if next != session.StageAddress {
		t.Fatalf("delivery must ask for an address, got %v", next)
	}
}

func TestPickupSkipsAddress(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)
	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	next, err := f.machine.ChooseDelivery(1, "pickup")
	if err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if next != session.StagePhone {
		t.Fatalf("pickup must skip the address, got %v", next)
	}
}

func TestEmptyInputsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)
	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := f.machine.ChooseDelivery(1, "delivery"); err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}

	if err := f.machine.SubmitAddress(1, "   "); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank address, got %v", err)
	}
	if got := f.machine.Stage(1); got != session.StageAddress {
		t.Fatalf("blank input must not advance, got %v", got)
	}

	if err := f.machine.SubmitAddress(1, "Keizersgracht 1"); err != nil {
		t.Fatalf("SubmitAddress: %v", err)
	}
	if err := f.machine.SubmitPhone(1, ""); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank phone, got %v", err)
	}
}

type countingNotifier struct {
	orders []*domain.Order
}

func (c *countingNotifier) OrderPlaced(_ context.Context, o *domain.Order) error {
	c.orders = append(c.orders, o)
	return nil
}

func TestFullPickupScenario(t *testing.T) {
	notifier := &countingNotifier{}
	f := newFixture(t, notifier)
	f.fillCart(t, 1)

	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := f.machine.ChooseDelivery(1, "pickup"); err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if err := f.machine.SubmitPhone(1, "0612345678"); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	placed, err := f.machine.SubmitComment(context.Background(), 1, "-")
	if err != nil {
		t.Fatalf("SubmitComment: %v", err)
	}

	// 2 x 5.00 + 1 x 8.00, pickup pays no delivery fee.
	if !placed.Total.Equal(decimal.RequireFromString("18.00")) {
		t.Fatalf("total = %s, want 18.00", placed.Total)
	}
	if !placed.DeliveryFee.IsZero() {
		t.Fatalf("pickup fee = %s, want 0", placed.DeliveryFee)
	}
	if placed.Comment != "" {
		t.Fatalf("sentinel comment must store empty, got %q", placed.Comment)
	}
	if placed.Status != domain.StatusNew {
		t.Fatalf("status = %s, want NEW", placed.Status)
	}
	if placed.Phone != "0612345678" || placed.Address != "" {
		t.Fatalf("unexpected contact data: %+v", placed)
	}
	if len(placed.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(placed.Lines))
	}

	if f.machine.InProgress(1) {
		t.Fatalf("conversation must return to idle")
	}
	if sum := f.carts.Totals(1, "ru"); !sum.Empty() {
		t.Fatalf("cart must be cleared after the order")
	}
	if len(notifier.orders) != 1 || notifier.orders[0].ID != placed.ID {
		t.Fatalf("notifier must see the stored order once")
	}
}

func TestFullDeliveryScenarioPaysFee(t *testing.T) {
	f := newFixture(t, nil)
	f.fillCart(t, 1)

	if err := f.machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := f.machine.ChooseDelivery(1, "delivery"); err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if err := f.machine.SubmitAddress(1, "Keizersgracht 1"); err != nil {
		t.Fatalf("SubmitAddress: %v", err)
	}
	if err := f.machine.SubmitPhone(1, "0612345678"); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	placed, err := f.machine.SubmitComment(context.Background(), 1, "без васаби")
	if err != nil {
		t.Fatalf("SubmitComment: %v", err)
	}

	// 18.00 merchandise is under the 20.00 threshold.
	if !placed.DeliveryFee.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("fee = %s, want 2.00", placed.DeliveryFee)
	}
	if !placed.Total.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("total = %s, want 20.00", placed.Total)
	}
	if placed.Comment != "без васаби" {
		t.Fatalf("comment = %q", placed.Comment)
	}
	if placed.Address != "Keizersgracht 1" {
		t.Fatalf("address = %q", placed.Address)
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *domain.Order) (*domain.Order, error) {
	return nil, domain.ErrPersistence
}
func (failingRepo) SetStatus(context.Context, int64, domain.Status) error { return nil }
func (failingRepo) ListRecent(context.Context, int) ([]domain.Order, error) {
	return nil, nil
}

func TestPersistFailureKeepsDraft(t *testing.T) {
	cats := []catalog.Category{{ID: "rolls", Titles: map[string]string{"ru": "Роллы"}}}
	items := []catalog.Item{
		{ID: "item_a", CategoryID: "rolls", Titles: map[string]string{"ru": "А"}, Price: decimal.RequireFromString("5.00")},
	}
	sessions := session.NewStore("ru")
	carts := cart.NewEngine(catalog.New(cats, items, catalog.DeliveryPolicy{}), sessions)
	machine := NewMachine(sessions, carts, failingRepo{}, nil)

	if _, err := carts.AddItem(1, "item_a"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := machine.Begin(1, "ru"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := machine.ChooseDelivery(1, "pickup"); err != nil {
		t.Fatalf("ChooseDelivery: %v", err)
	}
	if err := machine.SubmitPhone(1, "0612345678"); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}

	_, err := machine.SubmitComment(context.Background(), 1, "-")
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got := machine.Stage(1); got != session.StageComment {
		t.Fatalf("failed persist must keep the comment stage for retry, got %v", got)
	}
	if sum := carts.Totals(1, "ru"); sum.Empty() {
		t.Fatalf("failed persist must keep the cart")
	}
}
