// Package editor implements the password-gated editors of the recipe book and
// the baseline list.
package editor

import (
	"crypto/subtle"
	"errors"

	"github.com/vsinha/shoplist/pkg/application/session"
)

// Editor names double as session access flags; each editor is unlocked separately.
const (
	EditorRecipes  = "recipes"
	EditorBaseline = "baseline"
)

var (
	// ErrWrongPassword is returned when a credential is rejected.
	ErrWrongPassword = errors.New("senha incorreta")
	// ErrUnauthorized is returned when an editor is used before being unlocked.
	ErrUnauthorized = errors.New("editor locked for this session")
)

// Authorizer decides whether a submitted credential unlocks the editors.
type Authorizer interface {
	Authorize(credential string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(credential string) bool

func (f AuthorizerFunc) Authorize(credential string) bool { return f(credential) }

// StaticPassword accepts a single shared password.
type StaticPassword string

func (p StaticPassword) Authorize(credential string) bool {
	return subtle.ConstantTimeCompare([]byte(p), []byte(credential)) == 1
}

// Gate unlocks editors for a session.
type Gate struct {
	auth Authorizer
}

// NewGate creates a gate backed by auth.
func NewGate(auth Authorizer) *Gate {
	return &Gate{auth: auth}
}

// Enter checks credential and, if accepted, unlocks the named editor for sess.
func (g *Gate) Enter(sess *session.Session, editor, credential string) error {
	if !g.auth.Authorize(credential) {
		return ErrWrongPassword
	}
	sess.Authorize(editor)
	return nil
}

func requireAccess(sess *session.Session, editor string) error {
	if sess == nil || !sess.Authorized(editor) {
		return ErrUnauthorized
	}
	return nil
}
