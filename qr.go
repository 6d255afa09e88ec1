package main

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// serveJoinQR generates a PNG QR code for the WebSocket join URL, for
// getting a roomful of phones connected quickly.
func serveJoinQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "ws"
		if r.TLS != nil {
			scheme = "wss"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
			scheme = "wss"
		}

		// We are at <prefix>/qr; the join endpoint is <prefix>/ws.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path + "/ws"

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
