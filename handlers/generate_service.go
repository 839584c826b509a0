package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/generation"
	"github.com/andrewpaige1/flashcards-api/utils"
)

// GenerateService serves the generation contract (GET and POST /generate) on top of a
// Generator, so a deployment can run the model backed service itself.
type GenerateService struct {
	Generator generation.Generator
	validate  *validator.Validate
}

func NewGenerateService(gen generation.Generator) *GenerateService {
	return &GenerateService{Generator: gen, validate: validator.New()}
}

func (s *GenerateService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /generate", s.Recommend)
	mux.HandleFunc("POST /generate", s.Generate)
}

func (s *GenerateService) Recommend(w http.ResponseWriter, r *http.Request) {
	topic, err := s.Generator.Recommend(r.Context(), r.URL.Query().Get("topics"))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error recommending topic")
		utils.WriteJSON(w, http.StatusBadGateway, generation.GenerateResponse{Error: err.Error()})
		return
	}
	utils.WriteJSON(w, http.StatusOK, generation.RecommendResponse{RecommendedTopic: topic})
}

func (s *GenerateService) Generate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, generation.GenerateResponse{Error: "Invalid request body"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, generation.GenerateResponse{Error: err.Error()})
		return
	}

	cards, err := s.Generator.Generate(r.Context(), req)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error generating flashcards")
		utils.WriteJSON(w, http.StatusBadGateway, generation.GenerateResponse{Error: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusOK, generation.GenerateResponse{Flashcards: cards})
}
