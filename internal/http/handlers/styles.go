package handlers

import "net/http"

// Styles lists the catalog with prompt bodies withheld.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Catalog.ListPublic())
}
