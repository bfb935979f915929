package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/events"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
	"github.com/1broseidon/tilesync/internal/runtimepath"
)

const commandTimeout = 10 * time.Second

// ServerConfig wires the server to the running daemon.
type ServerConfig struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Reconciler *daemon.Reconciler
	Bus        *events.Bus
	// LoadConfig reads the configuration for RELOAD. Defaults to config.Load.
	LoadConfig func() (*config.Config, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	reconciler   *daemon.Reconciler
	bus          *events.Bus
	loadConfig   func() (*config.Config, error)
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig) (*Server, error) {
	socketPath := cfg.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	loadConfig := cfg.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		reconciler: cfg.Reconciler,
		bus:        cfg.Bus,
		loadConfig: loadConfig,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Command == CommandSubscribe {
		s.streamEvents(conn, reader)
		return
	}

	resp := s.handleCommand(req)
	if err := writeLine(conn, resp); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetState:
		return s.handleGetState()
	case CommandGetFocused:
		return s.handleGetFocused()
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandFocus:
		return s.handleFocus(req.Payload)
	case CommandWorkspace:
		return s.handleWorkspace(req.Payload)
	case CommandRedraw:
		return s.submit(daemon.RedrawAll(), nil)
	case CommandResetEffects:
		return s.submit(daemon.ResetEffects(), nil)
	case CommandReload:
		return s.handleReload()
	case CommandSplit:
		return s.handleSplit(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// submit runs cmd on the reconciler and responds with data on success.
func (s *Server) submit(cmd daemon.Command, data func() interface{}) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := s.reconciler.Submit(ctx, cmd); err != nil {
		return NewErrorResponse(err.Error())
	}

	var payload interface{}
	if data != nil {
		payload = data()
	}
	resp, err := NewOKResponse(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetState() *Response {
	var data StateData
	return s.submit(daemon.Query(func(env *daemon.Env) error {
		root, err := env.State.ToDTO(env.State.Root().ID)
		data.Root = root
		return err
	}), func() interface{} {
		data.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
		return data
	})
}

func (s *Server) handleGetFocused() *Response {
	var data model.ContainerDTO
	return s.submit(daemon.Query(func(env *daemon.Env) error {
		focused, err := env.State.FocusedContainer()
		if err != nil {
			return err
		}
		data, err = env.State.ToDTO(focused.ID)
		return err
	}), func() interface{} { return data })
}

func (s *Server) handleGetWindows() *Response {
	data := WindowsData{Windows: []model.ContainerDTO{}}
	return s.submit(daemon.Query(func(env *daemon.Env) error {
		for _, c := range env.State.Windows() {
			dto, err := env.State.ToDTO(c.ID)
			if err != nil {
				return err
			}
			data.Windows = append(data.Windows, dto)
		}
		return nil
	}), func() interface{} { return data })
}

func (s *Server) handleFocus(payload json.RawMessage) *Response {
	var req FocusPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}

	switch {
	case req.Handle != 0:
		return s.submit(daemon.FocusWindow(platform.WindowID(req.Handle)), nil)
	case req.Direction.Delta() != 0:
		return s.submit(daemon.FocusRelative(req.Direction.Delta()), nil)
	default:
		return NewErrorResponse("handle or direction (next|prev) is required")
	}
}

func (s *Server) handleWorkspace(payload json.RawMessage) *Response {
	var req WorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid workspace payload: %v", err))
	}

	switch {
	case req.Name != "":
		return s.submit(daemon.SwitchWorkspace(req.Name), nil)
	case req.Direction.Delta() != 0:
		return s.submit(daemon.SwitchWorkspaceRelative(req.Direction.Delta()), nil)
	default:
		return NewErrorResponse("name or direction (next|prev) is required")
	}
}

// handleReload reloads the configuration
func (s *Server) handleSplit(payload json.RawMessage) *Response {
	var req SplitPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid split payload: %v", err))
	}
	if !req.Direction.Valid() {
		return NewErrorResponse("direction (horizontal|vertical) is required")
	}
	return s.submit(daemon.SplitFocused(req.Direction), nil)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if !req.Direction.Valid() {
		return NewErrorResponse("direction (grow_width|shrink_width|grow_height|shrink_height) is required")
	}
	return s.submit(daemon.ResizeFocused(req.Direction), nil)
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	resp := s.submit(daemon.Reload(newCfg), nil)
	if resp.Status == "OK" {
		log.Println("IPC: Config reloaded successfully")
	}
	return resp
}

// streamEvents acknowledges a subscription and writes events until the
// client hangs up.
func (s *Server) streamEvents(conn net.Conn, reader *bufio.Reader) {
	if s.bus == nil {
		s.sendError(conn, "event subscription unavailable")
		return
	}

	ch, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	ok, _ := NewOKResponse(nil)
	if err := writeLine(conn, ok); err != nil {
		return
	}

	hangup := make(chan struct{})
	go func() {
		defer close(hangup)
		io.Copy(io.Discard, reader)
	}()

	for {
		select {
		case <-hangup:
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			if err := writeLine(conn, ev); err != nil {
				if !errors.Is(err, net.ErrClosed) {
					log.Printf("IPC event stream error: %v", err)
				}
				return
			}
		}
	}
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

func writeLine(conn net.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	writeLine(conn, NewErrorResponse(errMsg))
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
