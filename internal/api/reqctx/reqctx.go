// Package reqctx carries request-scoped values between middlewares and
// handlers.
package reqctx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

const (
	identityKey = "eventsplus.identity"
	sessionKey  = "eventsplus.session"
	eventKey    = "eventsplus.event"
)

// Session identifies the token behind the current identity.
type Session struct {
	TokenID   string
	ExpiresAt time.Time
}

func SetIdentity(c *gin.Context, identity domain.Identity, session Session) {
	c.Set(identityKey, identity)
	c.Set(sessionKey, session)
}

func Identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)

	return identity, ok
}

// CallerID is the id of the signed in user, or zero for visitors.
func CallerID(c *gin.Context) uint {
	identity, _ := Identity(c)
	return identity.ID
}

func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)

	return session, ok
}

func SetEvent(c *gin.Context, event domain.Event) {
	c.Set(eventKey, event)
}

func Event(c *gin.Context) (domain.Event, bool) {
	v, ok := c.Get(eventKey)
	if !ok {
		return domain.Event{}, false
	}
	event, ok := v.(domain.Event)

	return event, ok
}
