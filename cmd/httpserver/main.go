// Command httpserver runs a TCP HTTP/1.x server backed by the streaming
// parser, replying to a handful of demo routes.
package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/httpwire/internal/config"
	"github.com/yourusername/httpwire/internal/headers"
	"github.com/yourusername/httpwire/internal/message"
	"github.com/yourusername/httpwire/internal/response"
	"github.com/yourusername/httpwire/internal/server"
)

func main() {
	var port int
	var configPath string

	root := &cobra.Command{
		Use:   "httpserver",
		Short: "Serve HTTP/1.x requests with the streaming parser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port, configPath)
		},
	}
	root.Flags().IntVar(&port, "port", 42069, "TCP port to listen on")
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults used if empty)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(port int, configPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}

	srv, err := server.Serve(port, cfg, logger, handle)
	if err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	defer srv.Close()

	logger.Info("server started", zap.Int("port", port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("server shutting down")
	return nil
}

func handle(w *response.Writer, req *message.Message) {
	h := headers.New()
	h.Set("Content-Type", "text/html")

	var statusCode int
	var body string

	switch req.RequestLine.Target {
	case "/yourproblem":
		statusCode = 400
		body = `<html><head><title>400 Bad Request</title></head>
<body><h1>Bad Request</h1><p>Your request honestly kinda sucked.</p></body></html>`
	case "/myproblem":
		statusCode = 500
		body = `<html><head><title>500 Internal Server Error</title></head>
<body><h1>Internal Server Error</h1><p>Okay, you know what? This one is on me.</p></body></html>`
	default:
		statusCode = 200
		body = `<html><head><title>200 OK</title></head>
<body><h1>Success!</h1><p>Your request was an absolute banger.</p></body></html>`
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Connection", connectionValue(req.KeepAlive))

	_ = w.WriteStatusLine(statusCode, "")
	_ = w.WriteHeaders(h)
	_, _ = w.WriteBody([]byte(body))
}

func connectionValue(keepAlive bool) string {
	if keepAlive {
		return "keep-alive"
	}
	return "close"
}

