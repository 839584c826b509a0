package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrewpaige1/flashcards-api/extract"
	"github.com/andrewpaige1/flashcards-api/utils"
	"github.com/andrewpaige1/flashcards-api/views"
)

// GenerationScreen is the response of the generation screen.
type GenerationScreen struct {
	Screen string                `json:"screen"`
	State  views.GenerationState `json:"state"`
	Route  string                `json:"route,omitempty"`
}

func generationScreen(s views.GenerationState) GenerationScreen {
	return GenerationScreen{Screen: "generation", State: s, Route: s.Route()}
}

func (h *Handler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	defer sess.Unlock()
	utils.WriteJSON(w, http.StatusOK, generationScreen(sess.Generation))
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	defer sess.Unlock()

	next, err := h.Generation.Recommend(r.Context(), sess.Generation, utils.CurrentUser(r))
	sess.Generation = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	utils.WriteJSON(w, http.StatusOK, generationScreen(next))
}

type generationForm struct {
	Lang          string `validate:"max=50"`
	NumFlashcards int    `validate:"omitempty,min=1,max=50"`
	Difficulty    string `validate:"max=50"`
	AnswerType    string `validate:"max=50"`
	InputType     string `validate:"omitempty,oneof=topic word image"`
	Topic         string `validate:"max=20000"`
}

// readGenerationForm parses a multipart or urlencoded submission. The uploaded file, if
// any, is read from the "file" part.
func (h *Handler) readGenerationForm(w http.ResponseWriter, r *http.Request) (generationForm, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+maxBodyBytes)

	var form generationForm
	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
			return form, nil, fmt.Errorf("invalid upload: %w", err)
		}
		file, _, err := r.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return form, nil, fmt.Errorf("invalid upload: %w", err)
		default:
			defer file.Close()
			if data, err = io.ReadAll(file); err != nil {
				return form, nil, fmt.Errorf("read upload: %w", err)
			}
		}
	} else if err := r.ParseForm(); err != nil {
		return form, nil, fmt.Errorf("invalid form: %w", err)
	}

	form = generationForm{
		Lang:       r.FormValue("lang"),
		Difficulty: r.FormValue("difficulty"),
		AnswerType: r.FormValue("answerType"),
		InputType:  r.FormValue("inputType"),
		Topic:      r.FormValue("topic"),
	}
	if n := r.FormValue("numFlashcards"); n != "" {
		num, err := strconv.Atoi(n)
		if err != nil {
			return form, nil, fmt.Errorf("numFlashcards must be an integer")
		}
		form.NumFlashcards = num
	}
	if err := h.validate.Struct(form); err != nil {
		return form, nil, err
	}
	return form, data, nil
}

// Generate extracts the submitted topic or upload and replaces the generated cards.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	form, data, err := h.readGenerationForm(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := extract.ParseKind(form.InputType)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.session(r)
	defer sess.Unlock()

	params := views.GenerationParams{
		Lang:          form.Lang,
		NumFlashcards: form.NumFlashcards,
		Difficulty:    form.Difficulty,
		AnswerType:    form.AnswerType,
		InputType:     kind,
	}
	next, err := h.Generation.Generate(r.Context(), sess.Generation, utils.CurrentUser(r), params, views.Upload{Topic: form.Topic, Data: data})
	sess.Generation = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	utils.WriteJSON(w, http.StatusOK, generationScreen(next))
}

func (h *Handler) FlipGenerated(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	sess.Generation = sess.Generation.Flip(index)
	utils.WriteJSON(w, http.StatusOK, generationScreen(sess.Generation))
}

type saveGeneratedRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// SaveGenerated stores the generated cards as a new collection. On success the
// response route points at the new collection.
func (h *Handler) SaveGenerated(w http.ResponseWriter, r *http.Request) {
	var req saveGeneratedRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	next, err := h.Generation.Save(r.Context(), sess.Generation, utils.CurrentUser(r), req.Name)
	sess.Generation = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	sess.Collections = sess.Collections.Navigate(next.SavedCollection)
	utils.WriteJSON(w, http.StatusCreated, generationScreen(next))
}
