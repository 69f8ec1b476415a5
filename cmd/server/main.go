package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/auth"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/config"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/db"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/export"
	mw "github.com/mirrorbox/mirrorbox/backend-go/internal/middleware"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/room"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/session"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/static"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	roomService := room.NewService(queries)
	roomHandler := room.NewHandler(roomService)

	// Scene loader for the session hub
	sceneLoader := func(roomID string) (*scene.Scene, error) {
		// The playground room is never persisted; it always starts fresh.
		if roomID == playgroundRoomID {
			return scene.NewDefaultScene(typeid.NewSceneID()), nil
		}
		snap, err := queries.GetLatestSnapshot(context.Background(), roomID)
		if err != nil {
			return nil, err
		}
		var s scene.Scene
		if err := json.Unmarshal(snap.Scene, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}

	// Scene saver for the session hub
	sceneSaver := func(roomID string, s *scene.Scene) error {
		if roomID == playgroundRoomID {
			return nil
		}
		sceneJSON, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal scene: %w", err)
		}

		currentSnap, err := queries.GetLatestSnapshot(context.Background(), roomID)
		nextVersion := int32(1)
		if err == nil {
			nextVersion = currentSnap.Version + 1
		}

		_, err = queries.CreateSnapshot(context.Background(), db.CreateSnapshotParams{
			ID:      typeid.NewSnapshotID(),
			RoomID:  roomID,
			Version: nextVersion,
			Scene:   sceneJSON,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	}

	hub := session.NewHub(sceneLoader, sceneSaver, cfg.MaxDepthLimit)
	go hub.Run()

	exportHandler := export.NewHandler(cfg.MaxDepthLimit)
	frontend := static.NewHandler(cfg.FrontendDir)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(strings.Split(cfg.AllowedOrigins, ",")))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// SVG export (public — used by playground and authenticated users)
	r.HandleFunc("/export/svg", exportHandler.ExportSVG).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/rooms", roomHandler.List).Methods("GET")
	api.HandleFunc("/rooms", roomHandler.Create).Methods("POST")
	api.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods("GET")
	api.HandleFunc("/rooms/{roomId}", roomHandler.Delete).Methods("DELETE")
	api.HandleFunc("/rooms/{roomId}/invite", roomHandler.Invite).Methods("POST")
	api.HandleFunc("/rooms/{roomId}/members", roomHandler.ListMembers).Methods("GET")
	api.HandleFunc("/rooms/{roomId}/members/{userId}", roomHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/rooms/{roomId}/scene/latest", roomHandler.GetLatestScene).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/room/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, roomService)
	})

	// Frontend (catch-all, must be last)
	r.PathPrefix("/").Handler(frontend).Methods("GET")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty scenes
		slog.Info("saving all scenes...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

const playgroundRoomID = "room_playground"

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, roomSvc *room.Service) {
	vars := mux.Vars(r)
	roomID := vars["roomId"]

	var userID string
	var displayName string

	// Playground room allows anonymous access
	if roomID == playgroundRoomID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for real rooms
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if !roomSvc.IsMember(r.Context(), roomID, userID) {
			http.Error(w, "not a room member", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:5173", "localhost:3000"},
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, userID, displayName, roomID, clientID)

	if !hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
