package main

import (
	"flag"
	"log"
	"os"

	"github.com/rmellor/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "web/static", "Directory of static web assets")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port, *staticDir)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
