// Package i18n holds the user-facing message table for the supported
// languages and resolves a user's language from their Telegram profile.
package i18n

import "strings"

// Supported languages.
const (
	LangRU = "ru"
	LangNL = "nl"
)

var messages = map[string]map[string]string{
	"start.greeting": {
		LangRU: "Добро пожаловать! Выберите категорию меню:",
		LangNL: "Welkom! Kies een categorie uit het menu:",
	},
	"menu.title": {
		LangRU: "Меню",
		LangNL: "Menu",
	},
	"menu.empty": {
		LangRU: "Меню временно недоступно. Попробуйте позже.",
		LangNL: "Het menu is tijdelijk niet beschikbaar. Probeer het later.",
	},
	"menu.back": {
		LangRU: "⬅️ Назад",
		LangNL: "⬅️ Terug",
	},
	"item.add": {
		LangRU: "➕ В корзину",
		LangNL: "➕ In winkelwagen",
	},
	"item.added": {
		LangRU: "Добавлено: %s",
		LangNL: "Toegevoegd: %s",
	},
	"item.unknown": {
		LangRU: "Эта позиция больше недоступна.",
		LangNL: "Dit item is niet meer beschikbaar.",
	},
	"category.unknown": {
		LangRU: "Эта категория больше недоступна.",
		LangNL: "Deze categorie is niet meer beschikbaar.",
	},
	"cart.title": {
		LangRU: "🛒 Ваша корзина:",
		LangNL: "🛒 Uw winkelwagen:",
	},
	"cart.empty": {
		LangRU: "Корзина пуста. Добавьте что-нибудь из меню.",
		LangNL: "Uw winkelwagen is leeg. Voeg iets toe uit het menu.",
	},
	"cart.line": {
		LangRU: "%s × %d = %s",
		LangNL: "%s × %d = %s",
	},
	"cart.subtotal": {
		LangRU: "Сумма: %s",
		LangNL: "Subtotaal: %s",
	},
	"cart.delivery_fee": {
		LangRU: "Доставка: %s",
		LangNL: "Bezorgkosten: %s",
	},
	"cart.delivery_free": {
		LangRU: "Доставка: бесплатно",
		LangNL: "Bezorging: gratis",
	},
	"cart.total": {
		LangRU: "Итого: %s",
		LangNL: "Totaal: %s",
	},
	"cart.checkout": {
		LangRU: "✅ Оформить заказ",
		LangNL: "✅ Bestellen",
	},
	"cart.clear": {
		LangRU: "🗑 Очистить",
		LangNL: "🗑 Leegmaken",
	},
	"cart.cleared": {
		LangRU: "Корзина очищена.",
		LangNL: "Winkelwagen leeggemaakt.",
	},
	"checkout.choose_mode": {
		LangRU: "Как вы хотите получить заказ?",
		LangNL: "Hoe wilt u uw bestelling ontvangen?",
	},
	"checkout.mode_delivery": {
		LangRU: "🚗 Доставка",
		LangNL: "🚗 Bezorgen",
	},
	"checkout.mode_pickup": {
		LangRU: "🏠 Самовывоз",
		LangNL: "🏠 Afhalen",
	},
	"checkout.ask_address": {
		LangRU: "Укажите адрес доставки:",
		LangNL: "Wat is het bezorgadres?",
	},
	"checkout.ask_phone": {
		LangRU: "Укажите номер телефона:",
		LangNL: "Wat is uw telefoonnummer?",
	},
	"checkout.ask_comment": {
		LangRU: "Комментарий к заказу (или «-», если без комментария):",
		LangNL: "Opmerking bij de bestelling (of «-» als u geen heeft):",
	},
	"checkout.invalid_choice": {
		LangRU: "Пожалуйста, выберите вариант кнопкой ниже.",
		LangNL: "Kies alstublieft een optie met de knoppen hieronder.",
	},
	"checkout.empty_input": {
		LangRU: "Поле не может быть пустым. Попробуйте ещё раз.",
		LangNL: "Dit veld mag niet leeg zijn. Probeer het opnieuw.",
	},
	"checkout.not_in_progress": {
		LangRU: "Сейчас нет активного оформления. Откройте корзину, чтобы начать.",
		LangNL: "Er is geen lopende bestelling. Open de winkelwagen om te beginnen.",
	},
	"checkout.done": {
		LangRU: "Спасибо! Заказ №%s принят. Мы свяжемся с вами в ближайшее время.",
		LangNL: "Bedankt! Bestelling %s is geplaatst. We nemen spoedig contact met u op.",
	},
	"checkout.failed": {
		LangRU: "Не удалось сохранить заказ. Попробуйте ещё раз чуть позже.",
		LangNL: "De bestelling kon niet worden opgeslagen. Probeer het later opnieuw.",
	},
	"orders.none": {
		LangRU: "Заказов пока нет.",
		LangNL: "Er zijn nog geen bestellingen.",
	},
	"orders.usage_status": {
		LangRU: "Использование: /status <id> <статус>",
		LangNL: "Gebruik: /status <id> <status>",
	},
	"orders.not_found": {
		LangRU: "Заказ не найден.",
		LangNL: "Bestelling niet gevonden.",
	},
	"orders.invalid_status": {
		LangRU: "Недопустимый статус. Доступны: %s",
		LangNL: "Ongeldige status. Toegestaan: %s",
	},
	"orders.status_updated": {
		LangRU: "Статус заказа %d обновлён: %s",
		LangNL: "Status van bestelling %d bijgewerkt: %s",
	},
	"access.denied": {
		LangRU: "Эта команда доступна только оператору.",
		LangNL: "Deze opdracht is alleen voor de beheerder.",
	},
	"error.generic": {
		LangRU: "Что-то пошло не так. Попробуйте ещё раз.",
		LangNL: "Er is iets misgegaan. Probeer het opnieuw.",
	},
}

// T returns the message for key in the given language, falling back to
// Russian, then to the key itself when nothing is registered.
func T(key, lang string) string {
	byLang, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLang[lang]; ok {
		return msg
	}
	if msg, ok := byLang[LangRU]; ok {
		return msg
	}
	return key
}

// ResolveLang maps a Telegram profile language code to a supported
// language: Dutch for nl-prefixed codes, Russian otherwise.
func ResolveLang(profileLang, fallback string) string {
	code := strings.ToLower(strings.TrimSpace(profileLang))
	if strings.HasPrefix(code, LangNL) {
		return LangNL
	}
	if code != "" {
		return LangRU
	}
	if fallback == LangNL {
		return LangNL
	}
	return LangRU
}
