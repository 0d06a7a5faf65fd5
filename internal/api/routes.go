package api

import "net/http"

// Routes registers every handler on a new mux.
func (api *ChatAPI) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", api.ChatHandler)
	mux.HandleFunc("GET /api/models", api.ListModelsHandler)
	mux.HandleFunc("GET /api/models/{id}", api.ModelHandler)
	mux.HandleFunc("GET /api/sidebar", api.SidebarHandler)
	mux.HandleFunc("/api/conversations/{id}", api.ConversationHandler)
	return mux
}
