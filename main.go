package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to static client directory (empty: none served)")
	dbPath := flag.String("db", "arena.db", "Path to the telemetry/settings database")
	publicURL := flag.String("public-url", "", "Public URL used in the join-link QR code")
	adminHash := flag.String("admin-hash", os.Getenv("ARENA_ADMIN_HASH"), "bcrypt hash gating debug commands (empty: disabled)")
	flag.Parse()

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	hub := NewHub(db, *adminHash)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir, *publicURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Arena server starting on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	hub.session.Game.Stop()
	hub.analytics.Stop()
	server.Close()
}
