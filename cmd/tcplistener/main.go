// Command tcplistener is a minimal demo that reads a connection's raw
// bytes as they arrive (no framing assumptions on the read side) and
// prints each fully parsed request as the streaming parser emits it.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/httpwire/internal/config"
	"github.com/yourusername/httpwire/internal/message"
	"github.com/yourusername/httpwire/internal/stream"
)

func main() {
	var port int

	root := &cobra.Command{
		Use:   "tcplistener",
		Short: "Print parsed requests as they arrive on a raw TCP connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listen(port)
		},
	}
	root.Flags().IntVar(&port, "port", 42069, "TCP port to listen on")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func listen(port int) error {
	addr := fmt.Sprintf(":%d", port)
	tcp, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", addr, err)
	}
	defer tcp.Close()

	fmt.Println("Listening for TCP traffic on", addr)
	for {
		conn, err := tcp.Accept()
		if err != nil {
			fmt.Println("ERROR: failed to accept:", err)
			continue
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	parser := stream.New(config.Default())
	buf := make([]byte, 1)

	for {
		n, readErr := conn.Read(buf)
		if n > 0 {
			msgs, perr := parser.Parse(buf[:n])
			if perr != nil {
				fmt.Println("ERROR: failed to parse request:", perr)
				return
			}
			for _, req := range msgs {
				printRequest(req)
			}
		}
		if readErr != nil {
			return
		}
	}
}

func printRequest(req *message.Message) {
	fmt.Printf("Request line:\n- Method: %s\n- Target: %s\n- Version: %s\n",
		req.RequestLine.Method, req.RequestLine.Target, req.RequestLine.Version)

	fmt.Println("Headers:")
	names := req.Headers.Names()
	if len(names) == 0 {
		fmt.Println("- (none)")
	}
	for _, name := range names {
		v, _ := req.Headers.Get(name)
		fmt.Printf("- %s: %s\n", name, v)
	}

	fmt.Println("Body:")
	if len(req.Body) == 0 {
		fmt.Println("- (none)")
	} else {
		fmt.Println(string(req.Body))
	}
}
