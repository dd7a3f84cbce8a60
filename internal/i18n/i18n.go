// Package i18n resolves the request language and localizes error messages.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported response languages.
const (
	LangEN = "en"
	LangVI = "vi"
)

var (
	supported = []language.Tag{language.English, language.Vietnamese}
	matcher   = language.NewMatcher(supported)
)

// Negotiate picks en or vi from an Accept-Language header value. Anything it
// cannot match resolves to en.
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return LangEN
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangEN
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return LangEN
	}
	if supported[idx] == language.Vietnamese {
		return LangVI
	}
	return LangEN
}

const errorPrefix = "error."

var messages = map[string]map[string]string{
	LangEN: {
		"authentication_required": "Authentication is required",
		"user_already_exists":     "Username already exists",
		"user_not_found":          "User not found",
		"incorrect_password":      "Incorrect password",
		"product_not_found":       "Product not found",
		"validation_failed":       "Invalid request",
		"not_found":               "Resource not found",
		"internal_error":          "Internal server error",
		"some_thing_went_wrong":   "Some thing went wrong!",
	},
	LangVI: {
		"authentication_required": "Yêu cầu xác thực",
		"user_already_exists":     "Tên đăng nhập đã tồn tại",
		"user_not_found":          "Không tìm thấy người dùng",
		"incorrect_password":      "Mật khẩu không chính xác",
		"product_not_found":       "Không tìm thấy sản phẩm",
		"validation_failed":       "Yêu cầu không hợp lệ",
		"not_found":               "Không tìm thấy tài nguyên",
		"internal_error":          "Lỗi máy chủ nội bộ",
		"some_thing_went_wrong":   "Đã có lỗi xảy ra!",
	},
}

// Translator looks up localized error messages by code.
type Translator struct {
	printers map[string]*message.Printer
}

// NewTranslator builds the message catalog for every supported language.
func NewTranslator() (*Translator, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := map[string]language.Tag{LangEN: language.English, LangVI: language.Vietnamese}
	for lang, entries := range messages {
		for code, msg := range entries {
			if err := builder.SetString(tags[lang], errorPrefix+code, msg); err != nil {
				return nil, fmt.Errorf("failed to register %s message %q: %w", lang, code, err)
			}
		}
	}
	printers := make(map[string]*message.Printer, len(tags))
	for lang, tag := range tags {
		printers[lang] = message.NewPrinter(tag, message.Catalog(builder))
	}
	return &Translator{printers: printers}, nil
}

// Error returns the localized message for an error code. It falls back to
// English when the language has no entry, and reports false when neither does.
func (t *Translator) Error(lang, code string) (string, bool) {
	if msg, ok := t.lookup(lang, code); ok {
		return msg, true
	}
	if lang != LangEN {
		return t.lookup(LangEN, code)
	}
	return "", false
}

func (t *Translator) lookup(lang, code string) (string, bool) {
	p, ok := t.printers[lang]
	if !ok {
		return "", false
	}
	key := errorPrefix + code
	// Printer echoes the key back when the catalog has no message for it.
	msg := p.Sprintf(key)
	if msg == key {
		return "", false
	}
	return msg, true
}
