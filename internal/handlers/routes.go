package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// RouterOptions configures SetupRoutes
type RouterOptions struct {
	AssetsDir   string
	Development bool
	Log         *zap.Logger
}

// Handlers groups the handlers SetupRoutes registers. Assets and
// WebSocket may be nil.
type Handlers struct {
	Datasets  *DatasetHandler
	Sessions  *SessionHandler
	Assets    *AssetHandler
	WebSocket *WebSocketHandler
}

// SetupRoutes wires every handler onto a mux router
func SetupRoutes(h Handlers, opts RouterOptions) *mux.Router {
	datasets, sessions := h.Datasets, h.Sessions
	r := mux.NewRouter()
	r.Use(RequestLogger(opts.Log))
	r.Use(SecureHeaders(opts.Development))

	api := r.PathPrefix("/api").Subrouter()

	// Legacy per-dataset routes, e.g. /api/excel-button-questions
	for _, key := range models.AllDatasets() {
		r.HandleFunc(key.Route(), datasets.Questions(key)).Methods(http.MethodGet, http.MethodPut)
	}
	api.HandleFunc("/datasets/{app}/{mode}", datasets.DatasetQuestions).Methods(http.MethodGet, http.MethodPut)

	api.HandleFunc("/sessions", sessions.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", sessions.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}", sessions.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionId}/click", sessions.Click).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/next", sessions.Next).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/previous", sessions.Previous).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/restart", sessions.Restart).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/retry-wrong", sessions.RetryWrong).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/answers", sessions.Answers).Methods(http.MethodGet)

	authoring := api.PathPrefix("/sessions/{sessionId}/authoring").Subrouter()
	authoring.HandleFunc("/draft", sessions.Draft).Methods(http.MethodGet)
	authoring.HandleFunc("/draft", sessions.EditDraft).Methods(http.MethodPatch)
	authoring.HandleFunc("/click", sessions.AuthoringClick).Methods(http.MethodPost)
	authoring.HandleFunc("/show-saved", sessions.ShowSaved).Methods(http.MethodPost)
	authoring.HandleFunc("/save-zone", sessions.SaveZone).Methods(http.MethodPost)
	authoring.HandleFunc("/explanation", sessions.SaveExplanation).Methods(http.MethodPut)

	api.HandleFunc("/stats/{app}/{mode}", sessions.Stats).Methods(http.MethodGet)

	if h.Assets != nil {
		api.HandleFunc("/assets", h.Assets.ListAssets).Methods(http.MethodGet)
		api.HandleFunc("/assets", h.Assets.UploadAsset).Methods(http.MethodPost)
	}

	if h.WebSocket != nil {
		r.HandleFunc("/ws", h.WebSocket.HandleWebSocket).Methods(http.MethodGet)
	}

	if opts.AssetsDir != "" {
		r.PathPrefix("/images/").Handler(http.StripPrefix("/images/", http.FileServer(http.Dir(opts.AssetsDir))))
	}
	return r
}
