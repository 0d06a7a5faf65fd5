package api

import (
	"net/http"

	"chatbot/internal/gemini"
)

// ModelList represents the structure of the list of models.
type ModelList struct {
	Object string         `json:"object"`
	Data   []gemini.Model `json:"data"`
}

// ListModelsHandler handles GET /api/models.
func (api *ChatAPI) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelList{
		Object: "list",
		Data:   api.Catalog.Models(),
	})
}

// ModelHandler handles GET /api/models/{id}.
func (api *ChatAPI) ModelHandler(w http.ResponseWriter, r *http.Request) {
	model, ok := api.Catalog.Lookup(r.PathValue("id"))
	if !ok {
		writeJSONError(w, "model not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, model)
}
