package auth

import (
	"crypto/subtle"

	"github.com/botdesk/botdesk/internal/domain"
)

// ModeKind discriminates the authentication paths a chat request can take.
type ModeKind int

const (
	// ModeNone means no credential was presented.
	ModeNone ModeKind = iota
	// ModeCookie is a first-party signed token from the auth cookie.
	ModeCookie
	// ModeBearer is a first-party signed token from the Authorization header.
	ModeBearer
	// ModeWidget is an embedded-widget sealed shared secret.
	ModeWidget
)

// Mode is the credential as resolved once at request entry, before any
// session or run mutation.
type Mode struct {
	Kind  ModeKind
	Value string
}

// Verifier validates credentials for both authentication paths. Pure checks,
// no side effects.
type Verifier struct {
	tokens *TokenService
	box    *SecretBox
}

// NewVerifier creates a new verifier
func NewVerifier(tokens *TokenService, box *SecretBox) *Verifier {
	return &Verifier{tokens: tokens, box: box}
}

// VerifyFirstParty checks a cookie or bearer credential and returns the
// subject user ID.
func (v *Verifier) VerifyFirstParty(mode Mode) (string, error) {
	switch mode.Kind {
	case ModeCookie, ModeBearer:
		userID, err := v.tokens.Verify(mode.Value)
		if err != nil {
			return "", domain.ErrInvalidCredential
		}
		return userID, nil
	case ModeNone:
		return "", domain.ErrMissingCredential
	default:
		return "", domain.ErrInvalidCredential
	}
}

// VerifyWidget opens a widget credential and compares it against the bot's
// stored shared secret.
func (v *Verifier) VerifyWidget(mode Mode, bot *domain.Bot) error {
	if mode.Kind != ModeWidget {
		return domain.ErrMissingCredential
	}
	if bot.SharedSecret == "" {
		// No secret has been issued for this bot yet, nothing can match.
		return domain.ErrInvalidWidgetSecret
	}

	plaintext, err := v.box.Open(mode.Value)
	if err != nil {
		return domain.ErrInvalidWidgetSecret
	}

	if subtle.ConstantTimeCompare([]byte(plaintext), []byte(bot.SharedSecret)) != 1 {
		return domain.ErrInvalidWidgetSecret
	}

	return nil
}
