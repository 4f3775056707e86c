package server

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, statusCode int, errMsg string) {
	jsonResponse(w, statusCode, errorBody{Error: errMsg})
}
