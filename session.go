package main

import "github.com/google/uuid"

// Session is one live arena world. The server runs a single endless
// session; the id distinguishes deploys in join links and telemetry.
type Session struct {
	ID   string
	Name string
	Game *Game
}

// NewSession creates the arena session and starts its game loop
func NewSession(name string, analytics *Analytics) *Session {
	sess := &Session{
		ID:   uuid.NewString(),
		Name: name,
		Game: NewGame(analytics),
	}
	go sess.Game.Run()
	return sess
}
