package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON serializes data to JSON and writes it with the given status code.
// If marshaling fails the response becomes 500 Internal Server Error and the
// wrapped error is returned.
//
// Example usage:
//
//	utils.WriteJSON(w, status, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// errorBody is the JSON shape of every error returned by the local endpoints.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError writes err as {"error": "..."} with the given status code.
func WriteError(w http.ResponseWriter, err error, statusCode int) {
	msg := http.StatusText(statusCode)
	if err != nil {
		msg = err.Error()
	}
	_, _ = WriteJSON(w, errorBody{Error: msg}, statusCode)
}
