package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/middleware"
	"github.com/andrewpaige1/flashcards-api/speech"
	"github.com/andrewpaige1/flashcards-api/utils"
	"github.com/andrewpaige1/flashcards-api/views"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the view API. Every route operates on the caller's session, whose lock
// is held for the whole request.
type Handler struct {
	Sessions    *views.Sessions
	Collections *views.CollectionView
	Flashcards  *views.FlashcardView
	Generation  *views.GenerationView
	Speaker     speech.Speaker

	// Tokens mints dev sign-in cookies. The route is only mounted when DevTokens is set.
	Tokens       auth.Issuer
	DevTokens    bool
	CookieDomain string
	CookieSecure bool

	MaxUploadBytes int64

	validate *validator.Validate
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h.validate == nil {
		h.validate = validator.New()
	}
	if h.MaxUploadBytes == 0 {
		h.MaxUploadBytes = 10 << 20
	}
	user := middleware.RequireUser

	mux.HandleFunc("GET /api/health", h.Health)

	// Collection and flashcard screens
	mux.HandleFunc("GET /api/flashcards", user(h.GetFlashcards))
	mux.HandleFunc("POST /api/collections", user(h.CreateCollection))
	mux.HandleFunc("DELETE /api/collections/{name}", user(h.DeleteCollection))
	mux.HandleFunc("POST /api/collections/dialog", user(h.CollectionDialog))
	mux.HandleFunc("POST /api/flashcards", user(h.CreateFlashcard))
	mux.HandleFunc("DELETE /api/flashcards/{cardID}", user(h.DeleteFlashcard))

	// Flashcard screen controls
	mux.HandleFunc("POST /api/view/flip/{index}", user(h.FlipCard))
	mux.HandleFunc("POST /api/view/audio", user(h.toggle(views.FlashcardState.ToggleAudio)))
	mux.HandleFunc("POST /api/view/delete-mode", user(h.toggle(views.FlashcardState.ToggleDeleteMode)))
	mux.HandleFunc("POST /api/view/sort-menu", user(h.toggle(views.FlashcardState.ToggleSortMenu)))
	mux.HandleFunc("POST /api/view/color-menu", user(h.toggle(views.FlashcardState.ToggleColorMenu)))
	mux.HandleFunc("POST /api/view/dialog", user(h.FlashcardDialog))
	mux.HandleFunc("PUT /api/view/colors", user(h.SetColors))
	mux.HandleFunc("POST /api/speech", user(h.Speak))

	// Generation screen
	mux.HandleFunc("GET /api/generation", user(h.GetGeneration))
	mux.HandleFunc("GET /api/generation/recommendation", user(h.Recommend))
	mux.HandleFunc("POST /api/generation", user(h.Generate))
	mux.HandleFunc("POST /api/generation/flip/{index}", user(h.FlipGenerated))
	mux.HandleFunc("POST /api/generation/save", user(h.SaveGenerated))

	if h.DevTokens {
		mux.HandleFunc("POST /api/dev/token", h.DevToken)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session returns the locked session of the signed in caller. The caller must Unlock it.
func (h *Handler) session(r *http.Request) *views.Session {
	s := h.Sessions.Get(utils.CurrentUser(r).ID)
	s.Lock()
	return s
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return index, true
}

// writeViewError maps a view error onto the response. Validation rejections become
// alerts; remote failures carry the notice the screen now shows.
func writeViewError(w http.ResponseWriter, r *http.Request, err error, notice string) {
	var (
		remote  *views.RemoteError
		extract *views.ExtractionError
	)
	switch {
	case errors.Is(err, views.ErrNotSignedIn):
		utils.WriteAlert(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, views.ErrDuplicateCollection):
		utils.WriteAlert(w, http.StatusConflict, err.Error())
	case views.IsValidation(err):
		utils.WriteAlert(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &extract):
		utils.WriteAlert(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &remote):
		if notice == "" {
			notice = remote.Op + " failed"
		}
		utils.WriteError(w, http.StatusBadGateway, notice)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Unhandled view error")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
