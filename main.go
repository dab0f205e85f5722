package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "", "Path to the YAML tuning file (optional)")
	dbPath := flag.String("db", "bullet-dimension.db", "SQLite database path (empty disables history)")
	clientDir := flag.String("client", "", "Directory of the renderer to serve (optional)")
	seed := flag.Uint64("seed", 0, "Simulation seed (0 = time based)")
	hashPw := flag.String("hash-password", "", "Print the bcrypt hash of a new operator password and exit")
	flag.Parse()

	if *hashPw != "" {
		h, err := HashPassword(*hashPw)
		if err != nil {
			log.Fatalf("hash: %v", err)
		}
		fmt.Println(h)
		return
	}

	cfg := DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	}

	var stats *Analytics
	if db != nil {
		stats = NewAnalytics(db)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	auth := NewAuth(db, cfg.Server.OperatorHash)
	hub := NewHub(cfg, *seed, db, auth, stats)
	go hub.Run()
	go hub.Session().Run()

	if *cfgPath != "" {
		w, err := WatchConfig(*cfgPath, hub.Session().ApplyConfig)
		if err != nil {
			log.Printf("config hot reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		if *clientDir != "" {
			log.Printf("Serving client files from %s", *clientDir)
		}
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	hub.Session().Stop()
	server.Close()
	if stats != nil {
		stats.Stop()
	}
}
