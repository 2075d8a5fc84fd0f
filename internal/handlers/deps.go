package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/sarthology/dailysage-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	DashboardSvc dashboardService
	ChatSvc      chatService
	HistorySvc   historyService
	JournalSvc   journalService
	MoodSvc      moodService
	UserSvc      userService
	AccountSvc   accountService
}
