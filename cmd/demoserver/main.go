// Command demoserver starts a local practice site for sbrowser: a login
// form with CSRF cookie and captcha, redirect chains, status pages, an
// echo endpoint and downloadable files.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/sbrowser/internal/demoserver"
	"github.com/raysh454/sbrowser/internal/logging"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}
	cfg.Logger = logging.NewStdoutLogger("demoserver")

	fmt.Println("===========================================")
	fmt.Println("   sbrowser Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Printf("Login with %s / %s at http://localhost:%d/login\n", cfg.Username, cfg.Password, cfg.Port)
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  /login, /session, /account, /logout  cookie + CSRF login flow")
	fmt.Println("  /captcha.png                         form image")
	fmt.Println("  /redirect/{n}                        chain of n redirects")
	fmt.Println("  /status/{code}                       arbitrary status")
	fmt.Println("  /echo                                request echo as JSON")
	fmt.Println("  /files/{name}                        file download")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
