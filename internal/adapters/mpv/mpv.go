// Package mpv drives mpv processes over their JSON IPC socket.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xvierd/dailo/internal/ports"
)

// ErrClosed is returned by commands sent to a closed player.
var ErrClosed = errors.New("mpv: player closed")

// Backend starts one mpv process per player.
type Backend struct {
	path      string
	socketDir string
}

var _ ports.MediaBackend = (*Backend)(nil)

// New creates a backend running the mpv binary at path (looked up on
// PATH when bare).
func New(path string) *Backend {
	if path == "" {
		path = "mpv"
	}
	return &Backend{path: path, socketDir: os.TempDir()}
}

// Available reports whether the mpv binary can be found.
func (b *Backend) Available() bool {
	_, err := exec.LookPath(b.path)
	return err == nil
}

// NewPlayer starts a paused, audio-only mpv and connects to it.
func (b *Backend) NewPlayer(ctx context.Context, source string, loop bool) (ports.MediaPlayer, error) {
	socket := filepath.Join(b.socketDir, "dailo-mpv-"+uuid.NewString()+".sock")
	args := []string{
		"--idle=yes",
		"--pause",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server=" + socket,
	}
	if loop {
		args = append(args, "--loop-file=inf")
	}

	cmd := exec.Command(b.path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	conn, err := dialSocket(ctx, socket)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	p := newPlayer(conn)
	p.cmd = cmd
	p.socket = socket
	if source != "" {
		if err := p.Load(source); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	return p, nil
}

func dialSocket(ctx context.Context, socket string) (net.Conn, error) {
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", socket)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to mpv: %w", ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// command is one IPC request line.
type command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// message is one IPC line from mpv: either an event or a reply.
type message struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
}

// Player is one mpv process.
type Player struct {
	conn   net.Conn
	cmd    *exec.Cmd
	socket string
	events chan ports.PlayerEvent

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

var _ ports.MediaPlayer = (*Player)(nil)

func newPlayer(conn net.Conn) *Player {
	p := &Player{
		conn:   conn,
		events: make(chan ports.PlayerEvent, 16),
		done:   make(chan struct{}),
	}
	go p.readLoop()
	_ = p.send("observe_property", 1, "pause")
	return p
}

func (p *Player) readLoop() {
	defer close(p.events)
	scanner := bufio.NewScanner(p.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if ev, ok := translate(msg); ok {
			p.emit(ev)
		}
	}
}

// translate maps an IPC event onto a player event.
func translate(msg message) (ports.PlayerEvent, bool) {
	switch msg.Event {
	case "file-loaded":
		return ports.EventReady, true
	case "end-file":
		if msg.Reason == "error" {
			return ports.EventError, true
		}
		if msg.Reason == "eof" {
			return ports.EventEnded, true
		}
	case "property-change":
		if msg.Name != "pause" {
			return 0, false
		}
		var paused bool
		if err := json.Unmarshal(msg.Data, &paused); err != nil {
			return 0, false
		}
		if paused {
			return ports.EventPaused, true
		}
		return ports.EventPlaying, true
	}
	return 0, false
}

func (p *Player) emit(ev ports.PlayerEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	default:
		// Consumers only need the latest state; drop when behind.
	}
}

func (p *Player) send(args ...any) error {
	line, err := json.Marshal(command{Command: args})
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if _, err := p.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("mpv: %w", err)
	}
	return nil
}

// Load replaces the current file.
func (p *Player) Load(source string) error {
	return p.send("loadfile", source, "replace")
}

// Play resumes playback.
func (p *Player) Play() error {
	return p.send("set_property", "pause", false)
}

// Pause pauses playback.
func (p *Player) Pause() error {
	return p.send("set_property", "pause", true)
}

// SetVolume sets the level in [0,1].
func (p *Player) SetVolume(level float64) error {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return p.send("set_property", "volume", level*100)
}

// SetMuted mutes or unmutes.
func (p *Player) SetMuted(muted bool) error {
	return p.send("set_property", "mute", muted)
}

// Events streams state changes until the player is closed.
func (p *Player) Events() <-chan ports.PlayerEvent {
	return p.events
}

// Close quits mpv and releases the socket.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	line, _ := json.Marshal(command{Command: []any{"quit"}})
	_ = p.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = p.conn.Write(append(line, '\n'))
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	err := p.conn.Close()
	if p.cmd != nil {
		_ = p.cmd.Wait()
	}
	if p.socket != "" {
		_ = os.Remove(p.socket)
	}
	return err
}
