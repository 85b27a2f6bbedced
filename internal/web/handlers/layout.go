package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-reader/internal/facereading"
)

// Layout returns report headings, icons and display order for the frontend.
func Layout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, facereading.Layout())
}
