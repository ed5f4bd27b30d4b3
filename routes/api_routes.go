// routes/api_routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/LilVoxy/dubai-rent-analytics/websocket"
	"github.com/gorilla/mux"
)

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, db *sql.DB, wsManager *websocket.Manager) {
	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// WebSocket мониторинг состояния ETL
	router.HandleFunc("/ws/monitor", wsManager.HandleConnections)

	// API отчетов по звездной схеме
	router.HandleFunc("/api/reports/areas", GetAreasHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/reports/property-types", GetPropertyTypesHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/reports/trends", GetTrendsHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/reports/summary", GetSummaryHandler(db)).Methods("GET", "OPTIONS")

	// API журнала запусков ETL
	router.HandleFunc("/api/runs", GetRunsHandler(db)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/runs/latest", GetLatestRunHandler(db)).Methods("GET", "OPTIONS")
}
