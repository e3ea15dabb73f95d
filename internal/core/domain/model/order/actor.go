package order

import (
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
)

type actorKind int

const (
	actorSession actorKind = iota + 1
	actorToken
)

// Actor is whoever asks to confirm or cancel: a signed-in customer or the
// bearer of an emailed token.
type Actor struct {
	kind   actorKind
	userID kernel.UUID
	token  string
}

func SessionActor(userID kernel.UUID) Actor {
	return Actor{kind: actorSession, userID: userID}
}

func TokenActor(token string) Actor {
	return Actor{kind: actorToken, token: token}
}

func (a Actor) IsSession() bool { return a.kind == actorSession }

func (a Actor) IsToken() bool { return a.kind == actorToken }

// String is safe for logs; it never prints the token.
func (a Actor) String() string {
	switch a.kind {
	case actorSession:
		return "session:" + a.userID.String()
	case actorToken:
		return "token"
	default:
		return "anonymous"
	}
}

// Validate rejects the zero Actor and a session without a valid user id. An
// empty token is left to authorization, which reports it as not found.
func (a Actor) Validate() error {
	switch a.kind {
	case actorSession:
		return a.userID.Validate()
	case actorToken:
		return nil
	default:
		return errs.NewValueIsRequiredError("actor")
	}
}
