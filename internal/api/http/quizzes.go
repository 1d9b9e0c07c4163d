package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/studynote/studynote/internal/auth/middleware"
	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/note"
	"github.com/studynote/studynote/internal/quiz"
	"github.com/studynote/studynote/internal/rbac"
)

// QuestionGenerator is satisfied by llm.Client.
type QuestionGenerator interface {
	Generate(ctx context.Context, noteContent string, st quiz.Settings) ([]quiz.Question, error)
}

type generateQuizReq struct {
	NoteIDs  []string      `json:"note_ids" validate:"required,min=1,max=10,dive,required"`
	Settings quiz.Settings `json:"settings"`
}

func GenerateQuizHandler(notes note.Store, quizzes quiz.Store, gen QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req generateQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req.Settings); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var contents []string
		for _, id := range req.NoteIDs {
			n, err := notes.Get(r.Context(), id)
			if err != nil {
				httpError(w, err)
				return
			}
			if n.UserID != userID {
				http.Error(w, "note not found", http.StatusNotFound)
				return
			}
			contents = append(contents, n.Content)
		}
		material := strings.Join(contents, "\n\n")
		if strings.TrimSpace(material) == "" {
			http.Error(w, "selected notes have no text content", http.StatusUnprocessableEntity)
			return
		}

		questions, err := gen.Generate(r.Context(), material, req.Settings)
		if err != nil {
			http.Error(w, "generation failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		q := quiz.Quiz{
			ID:        uuid.NewString(),
			UserID:    userID,
			NoteIDs:   req.NoteIDs,
			Settings:  req.Settings,
			Questions: questions,
			CreatedAt: time.Now().Unix(),
		}
		if err := quizzes.PutQuiz(r.Context(), q); err != nil {
			httpError(w, err)
			return
		}
		for i := range q.Questions {
			q.Questions[i] = q.Questions[i].StripKeys()
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func GetQuizHandler(quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		q, err := quizzes.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			httpError(w, err)
			return
		}
		if q.UserID != userID && !rbac.Has(rbac.RoleFromContext(r.Context()), "result:view-all") {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func ListQuizzesHandler(quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		list, err := quizzes.ListQuizzes(r.Context(), userID, limit, offset)
		if err != nil {
			httpError(w, err)
			return
		}
		if list == nil {
			list = []quiz.Quiz{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type submitQuizReq struct {
	Answers   map[string]grading.Answer `json:"answers" validate:"required,min=1"`
	TimeSpent map[string]int            `json:"time_spent"`
}

func SubmitQuizResultHandler(quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req submitQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := quizzes.SubmitResult(r.Context(), chi.URLParam(r, "quizID"), userID, req.Answers, req.TimeSpent)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func GetQuizResultHandler(quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		res, err := quizzes.GetResult(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			httpError(w, err)
			return
		}
		if res.UserID != userID && !rbac.Has(rbac.RoleFromContext(r.Context()), "result:view-all") {
			http.Error(w, "quiz result not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
