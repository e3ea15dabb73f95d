package http

import (
	"net/http"

	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/model/notification"

	"github.com/labstack/echo/v4"
)

const msgNotificationNotFound = "Notification not found"

// GetNotifications handles GET /notifications.
func (s *Server) GetNotifications(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return writeRequestError(c, errNotAuthorized)
	}

	query, err := queries.NewGetNotificationsQuery(readerOf(session))
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request", err)
	}

	views, err := s.handlers.Notifications.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, messages{internal: "Failed to retrieve notifications"})
	}

	resp := make([]notificationResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newNotificationResponse(v))
	}

	return okList(c, "Notifications retrieved successfully", resp)
}

// MarkNotificationRead handles PUT /notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return writeRequestError(c, errNotAuthorized)
	}
	notificationID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, msgNotificationNotFound)
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, readerOf(session))
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request", err)
	}

	if _, err = s.handlers.MarkNotificationRead.Handle(c.Request().Context(), cmd); err != nil {
		return s.respondError(c, err, messages{notFound: msgNotificationNotFound, internal: msgInternal})
	}

	return ok(c, http.StatusOK, "Notification marked as read", nil)
}

func readerOf(session Session) notification.Reader {
	return notification.Reader{UserID: session.UserID, IsAdmin: session.IsAdmin()}
}
