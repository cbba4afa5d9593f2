package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/callbacks"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/core/telegram/keyboard"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/i18n"
	"github.com/sushi-aurum/orderbot/internal/session"
)

func (h *Handlers) handleCheckout(c tele.Context) error {
	lang := h.lang(c)

	if err := h.machine.Begin(userID(c), lang); err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return helpers.EditOrSendMD(c, i18n.T("cart.empty", lang))
		}
		return err
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: i18n.T("checkout.mode_delivery", lang), Unique: cbMode, Data: string(domain.ModeDelivery)},
		{Text: i18n.T("checkout.mode_pickup", lang), Unique: cbMode, Data: string(domain.ModePickup)},
	})
	return helpers.EditOrSendMD(c, i18n.T("checkout.choose_mode", lang), markup)
}

func (h *Handlers) handleMode(c tele.Context) error {
	lang := h.lang(c)

	next, err := h.machine.ChooseDelivery(userID(c), callbacks.Payload(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStage):
			return helpers.SendText(c, i18n.T("checkout.not_in_progress", lang))
		case errors.Is(err, domain.ErrInvalidChoice):
			return helpers.SendText(c, i18n.T("checkout.invalid_choice", lang))
		}
		return err
	}

	if next == session.StageAddress {
		return helpers.EditOrSendMD(c, i18n.T("checkout.ask_address", lang))
	}
	return helpers.EditOrSendMD(c, i18n.T("checkout.ask_phone", lang))
}

// FSM adapts the checkout machine to the free-text router: while a
// checkout is active, every text message is an answer to the current
// stage's question.
type FSM struct {
	h *Handlers
}

// InProgress reports whether the user is inside a checkout.
func (f *FSM) InProgress(userID int64) bool {
	return f.h.machine.InProgress(userID)
}

// HandleText feeds the message text to the stage that is waiting for it.
func (f *FSM) HandleText(c tele.Context) error {
	h := f.h
	lang := h.lang(c)
	uid := userID(c)
	text := c.Text()

	switch h.machine.Stage(uid) {
	case session.StageAddress:
		if err := h.machine.SubmitAddress(uid, text); err != nil {
			return f.replyStageError(c, lang, err)
		}
		return helpers.SendText(c, i18n.T("checkout.ask_phone", lang))

	case session.StagePhone:
		if err := h.machine.SubmitPhone(uid, text); err != nil {
			return f.replyStageError(c, lang, err)
		}
		return helpers.SendText(c, i18n.T("checkout.ask_comment", lang))

	case session.StageComment:
		placed, err := h.machine.SubmitComment(helpers.ContextFrom(c), uid, text)
		if err != nil {
			if errors.Is(err, domain.ErrPersistence) {
				return helpers.SendText(c, i18n.T("checkout.failed", lang))
			}
			return f.replyStageError(c, lang, err)
		}
		return helpers.SendText(c, fmt.Sprintf(i18n.T("checkout.done", lang), placed.Number))

	case session.StageDeliveryChoice:
		// The choice is made with buttons, typed text is not accepted.
		return helpers.SendText(c, i18n.T("checkout.invalid_choice", lang))

	default:
		return helpers.SendText(c, i18n.T("checkout.not_in_progress", lang))
	}
}

func (f *FSM) replyStageError(c tele.Context, lang string, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return helpers.SendText(c, i18n.T("checkout.empty_input", lang))
	case errors.Is(err, domain.ErrInvalidStage):
		return helpers.SendText(c, i18n.T("checkout.not_in_progress", lang))
	case errors.Is(err, domain.ErrEmptyCart):
		return helpers.SendText(c, i18n.T("cart.empty", lang))
	}
	return err
}

// handleFreeText answers text sent outside of any flow by pointing the
// user back to the menu.
func (h *Handlers) handleFreeText(c tele.Context) error {
	lang := h.lang(c)
	if h.catalog.Len() == 0 {
		return helpers.SendText(c, i18n.T("menu.empty", lang))
	}
	return helpers.SendText(c, i18n.T("start.greeting", lang), h.categoriesKeyboard(lang))
}
