package response

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers the same envelope:
//
//	{"success": true, ...}
//	{"success": false, "error": "<human-readable reason>"}
//
// Extra payload fields sit alongside "success" at the top level.

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes {"success":true} merged with fields.
func Success(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Fail writes {"success":false,"error":msg} with the given status.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"success": false, "error": msg})
}
