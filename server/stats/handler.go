package stats

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

const defaultLeaderLimit = 10

// Routes registers the read-only stats API on mux.
func Routes(mux *http.ServeMux, store *Store, log zerolog.Logger) {
	mux.HandleFunc("GET /stats/leaders/{weapon}", Leaders(store, log))
	mux.HandleFunc("GET /stats/players/{player}", PlayerStats(store, log))
	mux.HandleFunc("GET /health", Health())
}

// Leaders lists the players with the most kills with one weapon type.
func Leaders(store *Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		limit := defaultLeaderLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, `{"error":"invalid limit"}`, http.StatusBadRequest)
				return
			}
			limit = n
		}

		rows, err := store.Leaders(r.Context(), r.PathValue("weapon"), limit)
		if err != nil {
			log.Error().Err(err).Msg("leaders query failed")
			http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
			return
		}
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Warn().Err(err).Msg("leaders encode error")
		}
	}
}

// PlayerStats lists one player's rows, one per weapon type.
func PlayerStats(store *Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		rows, err := store.ForPlayer(r.Context(), r.PathValue("player"))
		if err != nil {
			log.Error().Err(err).Msg("player query failed")
			http.Error(w, `{"error":"query failed"}`, http.StatusInternalServerError)
			return
		}
		if len(rows) == 0 {
			http.Error(w, `{"error":"unknown player"}`, http.StatusNotFound)
			return
		}
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Warn().Err(err).Msg("player encode error")
		}
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
