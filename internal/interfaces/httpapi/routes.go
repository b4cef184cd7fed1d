package httpapi

import "net/http"

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Public market-data routes.
	mux.HandleFunc("GET /stock/{symbol}", s.handleStock)
	mux.HandleFunc("GET /chart/{symbol}", s.handleChart)
	mux.HandleFunc("GET /stream/{symbol}", s.handleStream)

	// Account routes require a bearer token.
	mux.HandleFunc("GET /portfolio", s.requireAuth(s.handlePortfolio))
	mux.HandleFunc("POST /order", s.requireAuth(s.handleOrder))

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "the requested endpoint does not exist"})
}
