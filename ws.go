package main

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS upgrades a connection and registers it as a player. A joiner is
// caught up immediately with the score table and, mid-question, with the
// in-flight question, so late arrivals see the same game as everyone else.
func serveWS(cfg *Config, game *Game, scores *Scoreboard, registry *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "WS: Upgrade error from %s: %v", realIP(r), err)
			return
		}

		host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
		if err != nil {
			host = conn.RemoteAddr().String()
		}

		session := registry.Add(conn, host)

		go session.writePump()

		_ = session.Send(ScoreUpdateMessage{
			Type:   typeScoreUpdate,
			Scores: scores.Snapshot(),
		})
		if question, ok := game.CurrentQuestion(); ok {
			_ = session.Send(QuestionMessage{
				Type:    typeQuestion,
				Number:  question.Number,
				Text:    question.Text,
				Options: question.Options,
			})
		}

		session.readPump(cfg, registry)
	}
}
