package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/utils"
	"github.com/andrewpaige1/flashcards-api/views"
)

// CollectionScreen is the response of the collection list.
type CollectionScreen struct {
	Screen string                `json:"screen"`
	State  views.CollectionState `json:"state"`
}

// FlashcardScreen is the response of the flashcard browsing screen.
type FlashcardScreen struct {
	Screen string               `json:"screen"`
	State  views.FlashcardState `json:"state"`
	Cards  []views.CardView     `json:"cards"`
}

func flashcardScreen(s views.FlashcardState) FlashcardScreen {
	return FlashcardScreen{Screen: "flashcards", State: s, Cards: s.Render()}
}

// GetFlashcards shows the collection list, or with ?id= the cards of that collection.
// q and sort update the filter and order when present.
func (h *Handler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	defer sess.Unlock()
	user := utils.CurrentUser(r)
	query := r.URL.Query()

	id := query.Get("id")
	if id == "" {
		sess.Collections = sess.Collections.Navigate("")
		next, err := h.Collections.Load(r.Context(), sess.Collections, user)
		sess.Collections = next
		if err != nil {
			writeViewError(w, r, err, next.Notice)
			return
		}
		utils.WriteJSON(w, http.StatusOK, CollectionScreen{Screen: "collections", State: next})
		return
	}

	sess.Collections = sess.Collections.Navigate(id)
	s := sess.Flashcards.Select(id)
	if query.Has("q") {
		s = s.SetQuery(query.Get("q"))
	}
	if query.Has("sort") {
		s = s.SetSort(views.ParseSortOrder(query.Get("sort")))
	}
	next, err := h.Flashcards.Load(r.Context(), s, user)
	if err != nil {
		// The last loaded collection stays on screen.
		sess.Flashcards = sess.Flashcards.WithNotice(next.Notice)
		writeViewError(w, r, err, next.Notice)
		return
	}
	sess.Flashcards = next
	utils.WriteJSON(w, http.StatusOK, flashcardScreen(next))
}

type createCollectionRequest struct {
	Name string `json:"name" validate:"max=200"`
}

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	next, err := h.Collections.Create(r.Context(), sess.Collections, utils.CurrentUser(r), req.Name)
	sess.Collections = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, CollectionScreen{Screen: "collections", State: next})
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	sess := h.session(r)
	defer sess.Unlock()

	next, err := h.Collections.Delete(r.Context(), sess.Collections, utils.CurrentUser(r), name)
	sess.Collections = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	if sess.Flashcards.Collection == name && next.Selected == "" {
		sess.Flashcards = sess.Flashcards.Select("")
	}
	utils.WriteJSON(w, http.StatusOK, CollectionScreen{Screen: "collections", State: next})
}

type collectionDialogRequest struct {
	Open  bool   `json:"open"`
	Draft string `json:"draft" validate:"max=200"`
}

func (h *Handler) CollectionDialog(w http.ResponseWriter, r *http.Request) {
	var req collectionDialogRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	s := sess.Collections.SetDraft(req.Draft)
	if req.Open {
		s = s.OpenDialog()
	} else {
		s = s.CloseDialog()
	}
	sess.Collections = s
	utils.WriteJSON(w, http.StatusOK, CollectionScreen{Screen: "collections", State: s})
}

type createFlashcardRequest struct {
	Front string `json:"front" validate:"max=2000"`
	Back  string `json:"back" validate:"max=2000"`
}

func (h *Handler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req createFlashcardRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	s := sess.Flashcards
	if id := r.URL.Query().Get("id"); id != "" {
		s = s.Select(id)
	}
	next, err := h.Flashcards.Create(r.Context(), s, utils.CurrentUser(r), req.Front, req.Back)
	sess.Flashcards = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, flashcardScreen(next))
}

func (h *Handler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("cardID")
	sess := h.session(r)
	defer sess.Unlock()

	s := sess.Flashcards
	if id := r.URL.Query().Get("id"); id != "" {
		s = s.Select(id)
	}
	next, err := h.Flashcards.Delete(r.Context(), s, utils.CurrentUser(r), cardID)
	sess.Flashcards = next
	if err != nil {
		writeViewError(w, r, err, next.Notice)
		return
	}
	utils.WriteJSON(w, http.StatusOK, flashcardScreen(next))
}

func (h *Handler) FlipCard(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	sess.Flashcards = sess.Flashcards.Flip(index)
	utils.WriteJSON(w, http.StatusOK, flashcardScreen(sess.Flashcards))
}

// toggle serves a control that only flips a flag on the flashcard screen.
func (h *Handler) toggle(fn func(views.FlashcardState) views.FlashcardState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(r)
		defer sess.Unlock()

		sess.Flashcards = fn(sess.Flashcards)
		utils.WriteJSON(w, http.StatusOK, flashcardScreen(sess.Flashcards))
	}
}

type flashcardDialogRequest struct {
	Open  bool   `json:"open"`
	Front string `json:"front" validate:"max=2000"`
	Back  string `json:"back" validate:"max=2000"`
}

func (h *Handler) FlashcardDialog(w http.ResponseWriter, r *http.Request) {
	var req flashcardDialogRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	s := sess.Flashcards.SetDraft(req.Front, req.Back)
	if req.Open {
		s = s.OpenDialog()
	} else {
		s = s.CloseDialog()
	}
	sess.Flashcards = s
	utils.WriteJSON(w, http.StatusOK, flashcardScreen(s))
}

type colorsRequest struct {
	Front string `json:"front" validate:"omitempty,hexcolor"`
	Back  string `json:"back" validate:"omitempty,hexcolor"`
}

func (h *Handler) SetColors(w http.ResponseWriter, r *http.Request) {
	var req colorsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	sess := h.session(r)
	defer sess.Unlock()

	sess.Flashcards = sess.Flashcards.SetColors(req.Front, req.Back)
	utils.WriteJSON(w, http.StatusOK, flashcardScreen(sess.Flashcards))
}

type speakRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

// Speak returns the card text as audio. The flashcard screen state is left as it is,
// so the card under the audio button is never flipped.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if h.Speaker == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "speech is not configured")
		return
	}
	sess := h.session(r)
	sess.Flashcards = sess.Flashcards.PlayAudio(req.Text)
	sess.Unlock()

	audio, contentType, err := h.Speaker.Speak(r.Context(), req.Text)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error synthesizing speech")
		utils.WriteError(w, http.StatusBadGateway, "Could not play audio")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
