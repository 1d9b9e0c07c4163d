package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/studynote/studynote/internal/auth/middleware"
	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/review"
)

func StartReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var st review.Settings
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(st); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sess, err := svc.Start(r.Context(), userID, st)
		if err != nil {
			if errors.Is(err, review.ErrNoQuestions) {
				http.Error(w, "no questions match the review settings", http.StatusUnprocessableEntity)
				return
			}
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func GetReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		sess, err := svc.Get(r.Context(), chi.URLParam(r, "sessionID"), userID)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type reviewAnswerReq struct {
	Answer grading.Answer `json:"answer"`
}

func AnswerReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req reviewAnswerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		sess, err := svc.SubmitAnswer(r.Context(), chi.URLParam(r, "sessionID"), userID, req.Answer)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func BackReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		sess, err := svc.StepBack(r.Context(), chi.URLParam(r, "sessionID"), userID)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type reviewResultResp struct {
	Result         review.Result `json:"result"`
	Grade          review.Grade  `json:"grade"`
	NextReviewDays int           `json:"next_review_days"`
}

// ReviewResultHandler scores the session and hands back the result together
// with the improvement grade and the recommended days until the next review.
// The session is discarded on success, so the result can be fetched once.
func ReviewResultHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		res, err := svc.Result(r.Context(), chi.URLParam(r, "sessionID"), userID)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reviewResultResp{
			Result:         res,
			Grade:          review.ImprovementGrade(res.ImprovementRate),
			NextReviewDays: int(review.NextReviewInterval(res.ImprovementRate) / (24 * time.Hour)),
		})
	}
}

func ReviewHistoryHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		entries, err := svc.History(r.Context(), userID, limit, offset)
		if err != nil {
			httpError(w, err)
			return
		}
		if entries == nil {
			entries = []review.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
