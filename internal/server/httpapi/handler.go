package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/server/models"
)

type codeBlockRequest struct {
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Code        string `json:"code"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type commitRequest struct {
	Snapshots map[string]*models.Snippet `json:"snapshots"`
}

type codeResponse struct {
	ID           string    `json:"id"`
	CommitID     string    `json:"commit_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Code         string    `json:"code"`
	FileName     string    `json:"file_name"`
	StartOffset  int       `json:"start_offset"`
	EndOffset    int       `json:"end_offset"`
	Status       string    `json:"status"`
	CategoryName string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

type commitResponse struct {
	ID      string    `json:"id"`
	Branch  string    `json:"branch"`
	Message string    `json:"message"`
	Stats   string    `json:"stats,omitempty"`
	Date    time.Time `json:"date"`
}

type commitFileResponse struct {
	Filename  string `json:"filename"`
	Additions int64  `json:"additions"`
	Deletions int64  `json:"deletions"`
	Patch     string `json:"patch,omitempty"`
}

type commitDetailResponse struct {
	commitResponse
	Files []commitFileResponse `json:"files"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type repoResponse struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

type branchResponse struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
}

func (s *Server) stageSnippet(w http.ResponseWriter, r *http.Request) {
	var snippet models.Snippet
	if err := json.NewDecoder(r.Body).Decode(&snippet); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrorValidation))
		return
	}

	out, err := s.codes.StageSnippet(r.Context(), ownerIDFromContext(r.Context()), &snippet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) listStaged(w http.ResponseWriter, r *http.Request) {
	out, err := s.codes.ListStaged(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateCodeBlock(w http.ResponseWriter, r *http.Request) {
	var req codeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrorValidation))
		return
	}

	id := chi.URLParam(r, "id")
	err := s.codes.UpdateCodeBlock(r.Context(), ownerIDFromContext(r.Context()), id,
		req.StartOffset, req.EndOffset, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrorValidation))
		return
	}

	status, err := models.ParseSnippetStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	if status != models.StatusDeleted {
		writeError(w, fmt.Errorf("%w: only deletion can be staged", common.ErrorValidation))
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.codes.MarkDeleted(r.Context(), ownerIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) commitSnippets(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrorValidation))
		return
	}

	commitID := chi.URLParam(r, "commitID")
	res, err := s.codes.CommitSnippets(r.Context(), ownerIDFromContext(r.Context()), commitID, req.Snapshots)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listCodes(w http.ResponseWriter, r *http.Request) {
	commitID := chi.URLParam(r, "commitID")

	records, err := s.codes.GetByCommit(r.Context(), commitID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]codeResponse, 0, len(records))
	for _, c := range records {
		out = append(out, codeResponse{
			ID:           c.ID,
			CommitID:     c.CommitID,
			Title:        c.Title,
			Content:      c.Content,
			Code:         c.Code,
			FileName:     c.FileName,
			StartOffset:  c.StartOffset,
			EndOffset:    c.EndOffset,
			Status:       string(c.Status),
			CategoryName: c.CategoryName,
			CreatedAt:    c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.github.Repos(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]repoResponse, 0, len(repos))
	for _, rp := range repos {
		out = append(out, repoResponse{
			Name:          rp.Name,
			FullName:      rp.FullName,
			Private:       rp.Private,
			DefaultBranch: rp.DefaultBranch,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	branches, err := s.github.Branches(r.Context(), ownerIDFromContext(r.Context()), owner, repo)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, branchResponse{Name: b.Name, SHA: b.SHA})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) syncCommits(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		branch = "main"
	}

	commits, err := s.github.SyncCommits(r.Context(), ownerIDFromContext(r.Context()), owner, repo, branch)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]commitResponse, 0, len(commits))
	for _, c := range commits {
		out = append(out, commitResponse{
			ID:      c.ID,
			Branch:  c.Branch,
			Message: c.Message,
			Stats:   c.Stats,
			Date:    c.Date,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) commitDetails(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	sha := chi.URLParam(r, "sha")

	commit, files, err := s.github.CommitDetails(r.Context(), ownerIDFromContext(r.Context()), owner, repo, sha)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := commitDetailResponse{
		commitResponse: commitResponse{
			ID:      commit.ID,
			Branch:  commit.Branch,
			Message: commit.Message,
			Stats:   commit.Stats,
			Date:    commit.Date,
		},
		Files: make([]commitFileResponse, 0, len(files)),
	}
	for _, f := range files {
		resp.Files = append(resp.Files, commitFileResponse{
			Filename:  f.Filename,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Patch:     f.Patch,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
