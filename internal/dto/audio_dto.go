package dto

import (
	"time"

	"github.com/google/uuid"
)

type AudioUploadResponse struct {
	Id               string `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Status           string `json:"status"`
}

type AudioResourceResponse struct {
	Id               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	Transcription    string    `json:"transcription,omitempty"`
	Summary          string    `json:"summary"`
	CreatedAt        time.Time `json:"created_at"`
}

type AudioSearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k,omitempty"`
}

type AudioSearchResult struct {
	Id       string  `json:"id"`
	Filename string  `json:"filename"`
	Summary  string  `json:"summary"`
	Score    float64 `json:"score"`
}

type AudioSearchResponse struct {
	Query   string              `json:"query"`
	Results []AudioSearchResult `json:"results"`
	Count   int                 `json:"count"`
}

// PublishEmbedAudioMessage is the async embed job payload
type PublishEmbedAudioMessage struct {
	AudioResourceId uuid.UUID `json:"audio_resource_id"`
}

type AudioListResponse struct {
	Resources []AudioResourceResponse `json:"resources"`
	Count     int                     `json:"count"`
}
