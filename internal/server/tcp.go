package server

import (
	"bufio"
	"context"
	"log"
	"net"
	"strings"
)

// maxLineLen bounds one protocol line; longer input drops the connection.
const maxLineLen = 64 * 1024

// TCPServer accepts raw TCP connections speaking the line protocol and
// attaches them to the hub.
type TCPServer struct {
	hub *Hub
	ln  net.Listener
}

// NewTCPServer binds the listener. Binding failure is the only fatal startup
// error the transport surfaces.
func NewTCPServer(hub *Hub, addr string) (*TCPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPServer{hub: hub, ln: ln}, nil
}

// Addr returns the bound listen address, useful when the port was ":0".
func (s *TCPServer) Addr() string {
	return s.ln.Addr().String()
}

// Serve accepts connections until ctx is canceled. Each connection gets a
// read goroutine; writes run on the client's writer goroutine.
func (s *TCPServer) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	log.Printf("quiz server listening on %s", s.Addr())
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c := NewClient(
			func(line string) error {
				_, err := conn.Write([]byte(line + "\n"))
				return err
			},
			conn.Close,
		)
		s.hub.Register(c)
		go s.readLoop(c, conn)
	}
}

// readLoop forwards complete lines to the hub in receipt order. A partial
// trailing line is retained by the scanner until more bytes arrive; EOF or a
// read error reports the connection as dead.
func (s *TCPServer) readLoop(c *Client, conn net.Conn) {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineLen)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !s.hub.Inbound(c, line) {
			return
		}
	}
	s.hub.Drop(c)
}
