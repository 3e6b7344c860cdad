package handler

import (
	"encoding/json"
	"net/http"
)

// writeOK writes a success response: {ok:true} merged with the payload.
func writeOK(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// writeFail writes a failure response with a stable error code. The HTTP
// status stays 200: the ok flag is the protocol, not the status line.
func writeFail(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": code})
}
