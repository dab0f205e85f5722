package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode: %v", err)
	}
}

// SetupRoutes configures HTTP routes. clientDir may be empty when no
// renderer is served.
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	if clientDir != "" {
		fs := http.FileServer(http.Dir(clientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		welcome := WelcomeMsg{Role: RoleViewer, State: hub.session.State()}
		if hub.db != nil {
			if best, err := hub.db.BestScore(); err == nil {
				welcome.Best = best
			}
		}
		client.SendJSON(Envelope{T: MsgWelcome, Data: welcome})
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// QR code a phone scans to attach as the controller
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		if hub.auth == nil {
			http.Error(w, "auth disabled", http.StatusNotFound)
			return
		}
		token, err := hub.auth.ControllerToken()
		if err != nil {
			log.Printf("qr: token: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		target := hub.cfg.Server.PublicURL + "/?ctrl=" + url.QueryEscape(token)
		png, err := qrcode.Encode(target, qrcode.Medium, 256)
		if err != nil {
			log.Printf("qr: encode: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	})

	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if hub.db == nil {
			writeJSON(w, []RunRow{})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := hub.db.TopRuns(limit)
		if err != nil {
			log.Printf("api/runs: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, runs)
	})

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"viewers": hub.ClientCount(),
			"state":   hub.session.State().String(),
		}
		if hub.stats != nil {
			resp["peak_viewers"] = hub.stats.PeakViewers()
			if counts, err := hub.stats.EventCounts(7); err == nil {
				resp["events"] = counts
			}
			if phases, err := hub.stats.PhaseReach(7); err == nil {
				resp["phases"] = phases
			}
		}
		writeJSON(w, resp)
	})

	return mux
}
