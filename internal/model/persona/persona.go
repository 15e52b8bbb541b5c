package persona

import "strings"

// Mode selects which of the two conversation identities is active. Guest is
// the default and always reachable; Private requires the unlock gate.
type Mode string

const (
	ModeGuest   Mode = "guest"
	ModePrivate Mode = "private"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeGuest || m == ModePrivate
}

// Language is the guest persona's reply language. Auto asks the model to
// detect and mirror the user's language. The private persona ignores it.
type Language string

const (
	LangAuto    Language = "auto"
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
	LangUrdu    Language = "ur"
	LangBangla  Language = "bn"
)

// Languages lists every selectable language in display order.
func Languages() []Language {
	return []Language{LangAuto, LangEnglish, LangHindi, LangUrdu, LangBangla}
}

// ParseLanguage normalizes raw input to a Language, defaulting to auto.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LangAuto:
		return LangAuto, true
	case LangEnglish:
		return LangEnglish, true
	case LangHindi:
		return LangHindi, true
	case LangUrdu:
		return LangUrdu, true
	case LangBangla:
		return LangBangla, true
	default:
		return LangAuto, false
	}
}

// Instruction resolves the system instruction for a (mode, language) pair.
// This is a pure function; a change in its output is the only thing that
// invalidates a cached remote session. Private ignores the language entirely.
func Instruction(mode Mode, lang Language) string {
	if mode == ModePrivate {
		return privateInstruction
	}

	fragment, ok := languageProtocols[lang]
	if !ok {
		fragment = languageProtocols[LangAuto]
	}
	return guestBaseInstruction + "\n\n# LANGUAGE PROTOCOL\n" + fragment
}
