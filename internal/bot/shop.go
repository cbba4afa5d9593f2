package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/callbacks"
	"github.com/sushi-aurum/orderbot/core/telegram/format"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/core/telegram/keyboard"
	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/i18n"
)

func (h *Handlers) handleStart(c tele.Context) error {
	lang := h.lang(c)
	if h.catalog.Len() == 0 {
		return helpers.SendText(c, i18n.T("menu.empty", lang))
	}
	return helpers.SendText(c, i18n.T("start.greeting", lang), h.categoriesKeyboard(lang))
}

func (h *Handlers) handleTopCallback(c tele.Context) error {
	lang := h.lang(c)
	if h.catalog.Len() == 0 {
		return helpers.EditOrSendMD(c, i18n.T("menu.empty", lang))
	}
	return helpers.EditOrSendMD(c, i18n.T("start.greeting", lang), h.categoriesKeyboard(lang))
}

// categoriesKeyboard lays categories out two per row with the cart
// shortcut at the bottom.
func (h *Handlers) categoriesKeyboard(lang string) *tele.ReplyMarkup {
	var buttons []keyboard.InlineBtn
	for _, cat := range h.catalog.Categories() {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Title(lang),
			Unique: cbCategory,
			Data:   cat.ID,
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	cartRow := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: i18n.T("cart.title", lang), Unique: cbCart},
	})
	markup.InlineKeyboard = append(markup.InlineKeyboard, cartRow.InlineKeyboard...)
	return markup
}

func (h *Handlers) handleCategory(c tele.Context) error {
	lang := h.lang(c)
	catID := callbacks.Payload(c)

	cat, err := h.catalog.Category(catID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return helpers.EditOrSendMD(c, i18n.T("category.unknown", lang))
		}
		return err
	}

	var buttons []keyboard.InlineBtn
	for _, item := range h.catalog.ItemsByCategory(catID) {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s · %s%s", item.Title(lang), h.currency, item.Price.StringFixed(2)),
			Unique: cbItem,
			Data:   item.ID,
		})
	}
	markup := keyboard.InlineButtons(buttons)
	backRow := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: i18n.T("menu.back", lang), Unique: cbBackToTop},
	})
	markup.InlineKeyboard = append(markup.InlineKeyboard, backRow.InlineKeyboard...)

	return helpers.EditOrSendMD(c, fmt.Sprintf("*%s*", mdSafe(cat.Title(lang))), markup)
}

func (h *Handlers) handleItem(c tele.Context) error {
	lang := h.lang(c)
	itemID := callbacks.Payload(c)

	item, err := h.catalog.Item(itemID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownItem) {
			return helpers.EditOrSendMD(c, i18n.T("item.unknown", lang))
		}
		return err
	}

	return helpers.EditOrSendMD(c, h.itemCard(item, lang, ""), h.itemKeyboard(item, lang))
}

// handleAdd puts one unit into the cart and re-shows the card with a
// confirmation line, so repeated taps keep adding.
func (h *Handlers) handleAdd(c tele.Context) error {
	lang := h.lang(c)
	itemID := callbacks.Payload(c)

	item, err := h.carts.AddItem(userID(c), itemID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownItem) {
			return helpers.EditOrSendMD(c, i18n.T("item.unknown", lang))
		}
		return err
	}

	added := fmt.Sprintf(i18n.T("item.added", lang), item.Title(lang))
	return helpers.EditOrSendMD(c, h.itemCard(item, lang, added), h.itemKeyboard(item, lang))
}

func (h *Handlers) itemCard(item catalog.Item, lang, note string) string {
	card := fmt.Sprintf("*%s*\n%s%s", mdSafe(item.Title(lang)), h.currency, item.Price.StringFixed(2))
	if note != "" {
		card += "\n\n" + mdSafe(note)
	}
	return card
}

// mdSafe escapes menu titles for MarkdownV1 messages.
func mdSafe(text string) string {
	escaped, err := format.EscapeMarkdown(text, format.MarkdownV1)
	if err != nil {
		return text
	}
	return escaped
}

func (h *Handlers) itemKeyboard(item catalog.Item, lang string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: i18n.T("item.add", lang), Unique: cbAdd, Data: item.ID}},
		[]keyboard.InlineBtn{{Text: i18n.T("menu.back", lang), Unique: cbCategory, Data: item.CategoryID}},
		[]keyboard.InlineBtn{{Text: i18n.T("cart.title", lang), Unique: cbCart}},
	)
}
