package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, req *Request) error {
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, req); err != nil {
		return nil, err
	}
	return readResponse(bufio.NewReader(conn))
}

func (c *Client) sendWithPayload(cmd CommandType, payload interface{}) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
	}
	return c.sendRequest(&Request{Command: cmd, Payload: data})
}

func decodeData(resp *Response, v interface{}) error {
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// GetState retrieves the full container tree.
func (c *Client) GetState() (*StateData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetState})
	if err != nil {
		return nil, err
	}
	var data StateData
	if err := decodeData(resp, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetFocused retrieves the focused container.
func (c *Client) GetFocused() (*model.ContainerDTO, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetFocused})
	if err != nil {
		return nil, err
	}
	var data model.ContainerDTO
	if err := decodeData(resp, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetWindows retrieves every managed window.
func (c *Client) GetWindows() ([]model.ContainerDTO, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetWindows})
	if err != nil {
		return nil, err
	}
	var data WindowsData
	if err := decodeData(resp, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// Focus focuses a window by native handle.
func (c *Client) Focus(handle uint32) error {
	_, err := c.sendWithPayload(CommandFocus, FocusPayload{Handle: handle})
	return err
}

// FocusDirection moves focus to the next or previous window.
func (c *Client) FocusDirection(dir Direction) error {
	_, err := c.sendWithPayload(CommandFocus, FocusPayload{Direction: dir})
	return err
}

// Workspace displays a workspace by name.
func (c *Client) Workspace(name string) error {
	_, err := c.sendWithPayload(CommandWorkspace, WorkspacePayload{Name: name})
	return err
}

// WorkspaceDirection displays the next or previous workspace.
func (c *Client) WorkspaceDirection(dir Direction) error {
	_, err := c.sendWithPayload(CommandWorkspace, WorkspacePayload{Direction: dir})
	return err
}

// Redraw re-lays out and redraws every window.
func (c *Client) Redraw() error {
	_, err := c.sendRequest(&Request{Command: CommandRedraw})
	return err
}

// ResetEffects reapplies window effects to every window.
func (c *Client) ResetEffects() error {
	_, err := c.sendRequest(&Request{Command: CommandResetEffects})
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Split sets the split direction for the focused window.
func (c *Client) Split(dir model.SplitDirection) error {
	_, err := c.sendWithPayload(CommandSplit, SplitPayload{Direction: dir})
	return err
}

// Resize grows or shrinks the focused window by one step.
func (c *Client) Resize(dir daemon.ResizeDirection) error {
	_, err := c.sendWithPayload(CommandResize, ResizePayload{Direction: dir})
	return err
}

// Subscribe streams daemon events to fn until ctx is cancelled or the
// daemon closes the connection.
func (c *Client) Subscribe(ctx context.Context, fn func(model.Event)) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, &Request{Command: CommandSubscribe}); err != nil {
		return err
	}
	reader := bufio.NewReader(conn)
	if _, err := readResponse(reader); err != nil {
		return err
	}
	conn.SetDeadline(time.Time{})

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("event stream closed: %w", err)
		}
		var ev model.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		fn(ev)
	}
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetFocused()
	return err
}
