package handlers

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie holding pending notifications.
const SessionCookieName = "taskboard_session"

// Notification types shown as toast banners.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
)

// Notification is a one-shot banner message. It is removed from the session
// as soon as it is read.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Notification{})
}

// notify queues a notification in the request's session. It does nothing
// when no session middleware is installed.
func notify(c *gin.Context, kind, message string) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	session.AddFlash(Notification{Type: kind, Message: message})
	if err := session.Save(); err != nil {
		slog.Warn("failed to save notification", slog.String("error", err.Error()))
	}
}

// NotificationHandler drains queued notifications.
type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List returns and clears pending notifications. Without session middleware
// there is nowhere to queue them, so the list is always empty.
func (h *NotificationHandler) List(c *gin.Context) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		c.JSON(http.StatusOK, gin.H{
			"notifications": []Notification{},
		})
		return
	}

	session := sessions.Default(c)
	flashes := session.Flashes()

	out := make([]Notification, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(Notification); ok {
			out = append(out, n)
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			slog.Warn("failed to clear notifications", slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": out,
	})
}
