// Package notify builds notification links and text, and delivers pushed
// notifications to connected users over server-sent events, holding them in
// an inbox while the user is offline.
package notify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"devlink/client/backend"
)

// Metadata keys the backend sets on notifications.
const (
	MetaPostID         = "postId"
	MetaCommentID      = "commentId"
	MetaTargetType     = "targetType"
	MetaConversationID = "conversationId"
	MetaLink           = "link"
	MetaMessage        = "message"
)

// A Caser keeps state between calls, so each call gets its own.
func title(s string) string { return cases.Title(language.English).String(s) }

func lower(s string) string { return cases.Lower(language.English).String(s) }

// Link returns the in-app path a notification points at.
func Link(n backend.Notification) string {
	md := n.Metadata
	switch n.Type {
	case backend.NotificationFollow:
		if n.Actor != nil && n.Actor.Username != "" {
			return "/profile/" + n.Actor.Username
		}
	case backend.NotificationLike, backend.NotificationComment:
		if md[MetaPostID] == "" {
			break
		}
		link := "/posts/" + md[MetaPostID]
		if id := md[MetaCommentID]; id != "" {
			link += "#comment-" + id
		}
		return link
	case backend.NotificationMessage:
		if id := md[MetaConversationID]; id != "" {
			return "/messages/" + id
		}
		return "/messages"
	case backend.NotificationSystem:
		if l := md[MetaLink]; strings.HasPrefix(l, "/") {
			return l
		}
	}
	return "/notifications"
}

// Text returns the line shown for a notification.
func Text(n backend.Notification) string {
	who := actorName(n.Actor)
	switch n.Type {
	case backend.NotificationFollow:
		return who + " started following you"
	case backend.NotificationLike:
		target := lower(n.Metadata[MetaTargetType])
		if target == "" {
			target = "post"
		}
		return who + " liked your " + target
	case backend.NotificationComment:
		if n.Metadata[MetaCommentID] != "" && lower(n.Metadata[MetaTargetType]) == "comment" {
			return who + " replied to your comment"
		}
		return who + " commented on your post"
	case backend.NotificationMessage:
		return who + " sent you a message"
	}
	if msg := n.Metadata[MetaMessage]; msg != "" {
		return msg
	}
	return "You have a new notification"
}

func actorName(a *backend.Author) string {
	if a == nil {
		return "Someone"
	}
	if a.Name != "" {
		return a.Name
	}
	if a.Username != "" {
		return title(a.Username)
	}
	return "Someone"
}

// ValidType reports whether t is a known notification type.
func ValidType(t string) bool {
	switch t {
	case backend.NotificationFollow, backend.NotificationLike, backend.NotificationComment,
		backend.NotificationMessage, backend.NotificationSystem:
		return true
	}
	return false
}
