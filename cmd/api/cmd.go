package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarthology/dailysage-backend/internal/bootstrap"
	vertexclient "github.com/sarthology/dailysage-backend/internal/client/vertex"
	"github.com/sarthology/dailysage-backend/internal/config"
	"github.com/sarthology/dailysage-backend/internal/handlers"
	"github.com/sarthology/dailysage-backend/internal/registry"
	"github.com/sarthology/dailysage-backend/internal/response"
	"github.com/sarthology/dailysage-backend/internal/router"
	"github.com/sarthology/dailysage-backend/internal/services"
	"github.com/sarthology/dailysage-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	vertex, err := vertexclient.NewAdapter(context.Background(), bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	exitOnError("vertex init failed", err, bs.Log)
	defer vertex.Close()

	// stores
	pstore := store.NewProfileStore(bs.Firestore)
	jstore := store.NewJournalStore(bs.Firestore)
	mstore := store.NewMoodStore(bs.Firestore)
	wstore := store.NewWidgetDataStore(bs.Firestore)
	cstore := store.NewChatStore(bs.Firestore)
	crstore := store.NewCreditStore(bs.Firestore)

	// services
	reg := registry.Default()
	mserv := services.NewMoodService(mstore)
	dserv := services.NewDashboardService(reg, pstore, jstore, mstore, wstore, bs.Log)
	defer dserv.CloseAll()
	jserv := services.NewJournalService(jstore)
	hserv := services.NewHistoryService(jstore, mstore, wstore)
	chserv := services.NewChatService(vertex, cstore, crstore, dserv, mserv, cfg.ChatMessageCost, cfg.ChatHistoryTTL)
	userv := services.NewUserService(pstore, crstore, cfg.SignupCredits)
	aserv := services.NewAccountService(jstore, mstore, wstore, cstore, pstore, dserv)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.DashboardSvc = dserv
	deps.ChatSvc = chserv
	deps.HistorySvc = hserv
	deps.JournalSvc = jserv
	deps.MoodSvc = mserv
	deps.UserSvc = userv
	deps.AccountSvc = aserv

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{Addr: ":8080", Handler: r}

	// Flush pending debounced layout writes before the instance goes away.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, os.Interrupt)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		exitOnError("server start failed", err, bs.Log)
	}
}
