package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
)

// maxMessageSize bounds a single framed message in either direction
const maxMessageSize = 16 << 20

// ErrMessageTooLarge is returned when a frame announces more than maxMessageSize bytes
var ErrMessageTooLarge = errors.New("socket message too large")

// CommandHook is called after each command a socket client sends
type CommandHook func(connID, request, response string)

// SocketClient connects to and queries a running socket server
type SocketClient struct {
	conn net.Conn
}

// NewSocketClient connects to a running socket server
func NewSocketClient(socketPath string) (*SocketClient, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket server at %s: %w", socketPath, err)
	}

	return &SocketClient{conn: conn}, nil
}

// Close closes the connection to the socket server
func (sc *SocketClient) Close() error {
	if sc.conn != nil {
		return sc.conn.Close()
	}
	return nil
}

// Execute sends a command and returns the decoded response
func (sc *SocketClient) Execute(cmdJSON string) (*Response, error) {
	w := &lengthPrefixedWriter{conn: sc.conn}
	if err := w.Write([]byte(cmdJSON)); err != nil {
		return nil, err
	}

	r := &lengthPrefixedReader{conn: sc.conn}
	data, err := r.Read()
	if err != nil {
		return nil, err
	}

	var response Response
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}

// SocketServer manages the Unix domain socket interface for StringHostCore
type SocketServer struct {
	socketPath string
	core       *StringHostCore
	listener   net.Listener
	coreMu     sync.Mutex // serializes command execution against the core
	mu         sync.Mutex
	hooks      []CommandHook
	done       chan struct{}
	stopped    chan struct{} // Closed when server has fully shut down
	stopOnce   sync.Once
}

// NewSocketServer creates a new socket server instance
func NewSocketServer(socketPath string, core *StringHostCore) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		core:       core,
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// AddCommandHook registers a hook run after every command
func (ss *SocketServer) AddCommandHook(hook CommandHook) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.hooks = append(ss.hooks, hook)
}

// Start begins listening on the Unix domain socket
func (ss *SocketServer) Start() error {
	// Remove existing socket file if it exists
	if err := os.Remove(ss.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", ss.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", ss.socketPath, err)
	}

	ss.listener = listener

	go ss.handleSignals()
	go ss.acceptConnections()

	return nil
}

// acceptConnections accepts incoming connections (multiple clients supported)
func (ss *SocketServer) acceptConnections() {
	for {
		conn, err := ss.listener.Accept()
		if err != nil {
			select {
			case <-ss.done:
				return
			default:
				log.Printf("socket: accept: %v", err)
				continue
			}
		}

		go ss.handleClient(uuid.NewString(), conn)
	}
}

// handleClient serves one connected client until it disconnects
func (ss *SocketServer) handleClient(connID string, conn net.Conn) {
	defer conn.Close()

	log.Printf("socket: client %s connected", connID)
	defer log.Printf("socket: client %s disconnected", connID)

	reader := &lengthPrefixedReader{conn: conn}
	writer := &lengthPrefixedWriter{conn: conn}

	for {
		data, err := reader.Read()
		if err != nil {
			if err != io.EOF {
				log.Printf("socket: client %s: read: %v", connID, err)
			}
			return
		}

		ss.coreMu.Lock()
		response := ss.core.ExecuteCommand(string(data))
		ss.coreMu.Unlock()

		if err := writer.Write([]byte(response)); err != nil {
			log.Printf("socket: client %s: write: %v", connID, err)
			return
		}

		ss.mu.Lock()
		hooks := append([]CommandHook{}, ss.hooks...)
		ss.mu.Unlock()
		for _, hook := range hooks {
			hook(connID, string(data), response)
		}
	}
}

// handleSignals stops the server on SIGINT or SIGTERM
func (ss *SocketServer) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		ss.Stop()
	case <-ss.done:
	}
}

// Stop gracefully shuts down the socket server. It is safe to call more than once.
func (ss *SocketServer) Stop() error {
	ss.stopOnce.Do(func() {
		close(ss.done)

		if ss.listener != nil {
			ss.listener.Close()
		}

		os.Remove(ss.socketPath)
		close(ss.stopped)
	})
	return nil
}

// Wait blocks until the server is fully shut down
func (ss *SocketServer) Wait() {
	<-ss.stopped
}

// ============================================================================
// Length-Prefixed Protocol Implementation
// ============================================================================

// lengthPrefixedReader reads length-prefixed messages (4-byte big-endian length + data)
type lengthPrefixedReader struct {
	conn io.Reader
}

// Read reads a single length-prefixed message
func (r *lengthPrefixedReader) Read() ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(r.conn, lengthBuf); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf)
	if length > maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.conn, data); err != nil {
		return nil, err
	}

	return data, nil
}

// lengthPrefixedWriter writes length-prefixed messages (4-byte big-endian length + data)
type lengthPrefixedWriter struct {
	conn io.Writer
}

// Write writes a single length-prefixed message in one call
func (w *lengthPrefixedWriter) Write(data []byte) error {
	if len(data) > maxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}

	frame := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[4:], data)

	_, err := w.conn.Write(frame)
	return err
}
