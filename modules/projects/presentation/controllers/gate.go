package controllers

import (
	"encoding/json"
	"net/http"
)

// httpGate answers confirmations from the request and queues notifications
// for the HX-Trigger response header.
type httpGate struct {
	confirmed bool
	messages  []string
}

func newHTTPGate(r *http.Request) *httpGate {
	return &httpGate{confirmed: r.FormValue("confirmed") == "true"}
}

func (g *httpGate) Confirm(string) bool {
	return g.confirmed
}

func (g *httpGate) Notify(message string) {
	g.messages = append(g.messages, message)
}

// flush must run before the status line is written.
func (g *httpGate) flush(w http.ResponseWriter) {
	if len(g.messages) == 0 {
		return
	}
	payload, err := json.Marshal(map[string][]string{"notify": g.messages})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}
