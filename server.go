package main

import (
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
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

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()

	if clientDir != "" {
		fs := http.FileServer(http.Dir(clientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}

	// QR code of the join link, for sharing the arena
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		link := publicURL
		if link == "" {
			link = "http://" + r.Host + "/"
		}
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	// WebSocket endpoint. Connecting is joining: the tank is created as
	// soon as the socket is up. A valid rejoin token reclaims the old
	// identity if that tank is no longer live.
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
		hub.register <- client

		var rejoinID, rejoinColor string
		if token := r.URL.Query().Get("token"); token != "" {
			if pid, color, err := hub.auth.ValidateRejoinToken(token); err == nil && !hub.session.Game.HasPlayer(pid) {
				rejoinID = pid
				rejoinColor = color
			}
		}

		go client.WritePump()

		player := hub.session.Game.AddHumanPlayer(client, rejoinID, rejoinColor)
		client.playerID = player.ID

		token, err := hub.auth.IssueRejoinToken(player.ID, player.Color)
		if err != nil {
			log.Printf("token issue: %v", err)
		}
		client.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
			ID:    player.ID,
			Color: player.Color,
			Token: token,
		}})

		go client.ReadPump()
	})

	return mux
}
