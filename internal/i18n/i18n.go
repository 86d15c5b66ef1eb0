// internal/i18n/i18n.go
//
// Player-facing messages in Azerbaijani (default) and English.
// Translations live in assets/locales/<lang>.po and are parsed with gotext.
// Unknown ids are returned unchanged so a missing translation never hides a message.

package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"

	"github.com/robalobadob/rayonlar/assets"
	"github.com/robalobadob/rayonlar/internal/game"
)

// DefaultLang is used when RAYONLAR_LANG is empty or unsupported.
const DefaultLang = "az"

// Message ids.
const (
	MsgNotFound    = "not_found"
	MsgDuplicate   = "duplicate"
	MsgForbidden   = "forbidden"
	MsgUnavailable = "unavailable"
	MsgBusy        = "busy"
	MsgLoadFailed  = "load_failed"
	MsgWon         = "won"
	MsgLost        = "lost"
)

// Messages translates message ids for one language.
type Messages struct {
	Lang string
	po   *gotext.Po
}

// Load parses the embedded catalog for lang, falling back to DefaultLang.
// Locale-style values such as "en_US.UTF-8" use their language prefix.
func Load(lang string) (*Messages, error) {
	if len(lang) > 2 {
		lang = lang[:2]
	}
	lang = strings.ToLower(lang)
	if lang != "az" && lang != "en" {
		lang = DefaultLang
	}
	b, err := assets.Locale(lang)
	if err != nil {
		return nil, fmt.Errorf("read locale %s: %w", lang, err)
	}
	po := gotext.NewPo()
	po.Parse(b)
	return &Messages{Lang: lang, po: po}, nil
}

// Get returns the translation for id.
func (m *Messages) Get(id string) string {
	if m == nil || m.po == nil {
		return id
	}
	return m.po.Get(id)
}

// CodeFor maps a game error to its message id. Unknown errors map to "".
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, game.ErrDuplicate):
		return MsgDuplicate
	case errors.Is(err, game.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, game.ErrUnavailable):
		return MsgUnavailable
	case errors.Is(err, game.ErrBusy):
		return MsgBusy
	case errors.Is(err, game.ErrLoad):
		return MsgLoadFailed
	}
	return ""
}

// Error translates a game error, or returns err.Error() for unknown ones.
func (m *Messages) Error(err error) string {
	if err == nil {
		return ""
	}
	if code := CodeFor(err); code != "" {
		return m.Get(code)
	}
	return err.Error()
}
