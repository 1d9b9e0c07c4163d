package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/studynote/studynote/internal/api/http"
	auth "github.com/studynote/studynote/internal/auth/middleware"
	"github.com/studynote/studynote/internal/config"
	"github.com/studynote/studynote/internal/db"
	"github.com/studynote/studynote/internal/llm"
	"github.com/studynote/studynote/internal/note"
	"github.com/studynote/studynote/internal/quiz"
	"github.com/studynote/studynote/internal/rbac"
	"github.com/studynote/studynote/internal/review"
	"github.com/studynote/studynote/internal/storage"
	syncx "github.com/studynote/studynote/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores and services ---
	events := syncx.NewEventRepo(dbh)
	noteStore := note.NewSQLStore(dbh)
	reviewStore := review.NewSQLStore(dbh)
	quizStore := quiz.NewSQLStore(dbh, reviewStore, events)
	reviewSvc := review.NewService(reviewStore, events)
	generator := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	signer := storage.NewURLSigner(cfg.AuthSecret, cfg.SignedURLTTL)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))

	// Signed-URL blob routes; the signature is the credential, no JWT.
	r.Route("/assets", func(ar chi.Router) {
		api.MountAssets(ar, bs, signer)
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		// Notes
		pr.With(rbac.Require("note:create")).
			Post("/notes", api.CreateNoteHandler(noteStore))
		pr.With(rbac.Require("note:view")).
			Get("/notes", api.ListNotesHandler(noteStore))
		pr.With(rbac.Require("note:view")).
			Get("/notes/{noteID}", api.GetNoteHandler(noteStore))
		pr.With(rbac.Require("note:create")).
			Put("/notes/{noteID}", api.UpdateNoteHandler(noteStore))
		pr.With(rbac.Require("note:delete")).
			Delete("/notes/{noteID}", api.DeleteNoteHandler(noteStore, bs))
		pr.With(rbac.Require("note:create")).
			Post("/notes/file-url", api.NoteFileURLHandler(signer))

		// Quizzes
		pr.With(rbac.Require("quiz:generate")).
			Post("/quizzes/generate", api.GenerateQuizHandler(noteStore, quizStore, generator))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:submit")).
			Post("/quizzes/{quizID}/results", api.SubmitQuizResultHandler(quizStore))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/results/{resultID}", api.GetQuizResultHandler(quizStore))

		// Review sessions
		pr.With(rbac.Require("review:run")).
			Post("/reviews", api.StartReviewHandler(reviewSvc))
		pr.With(rbac.RequireAny("review:view-own", "review:view-all")).
			Get("/reviews/history", api.ReviewHistoryHandler(reviewSvc))
		pr.With(rbac.Require("review:run")).
			Get("/reviews/{sessionID}", api.GetReviewHandler(reviewSvc))
		pr.With(rbac.Require("review:run")).
			Post("/reviews/{sessionID}/answers", api.AnswerReviewHandler(reviewSvc))
		pr.With(rbac.Require("review:run")).
			Post("/reviews/{sessionID}/back", api.BackReviewHandler(reviewSvc))
		pr.With(rbac.RequireAny("review:view-own", "review:view-all")).
			Get("/reviews/{sessionID}/result", api.ReviewResultHandler(reviewSvc))

		// Sync
		pr.With(rbac.Require("sync:pull")).
			Get("/sync/events", api.ListEventsHandler(events))

		// Users
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
