package playback

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// MPVPlayer drives a local mpv instance over its JSON IPC socket
// (mpv --input-ipc-server=<path>). It satisfies Player plus the optional
// Muter and VolumeController capabilities.
type MPVPlayer struct {
	mu        sync.Mutex
	conn      net.Conn
	reader    *bufio.Reader
	requestID int64
	timeout   time.Duration
}

type mpvRequest struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

type mpvResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
}

// DialMPV connects to an mpv IPC socket.
func DialMPV(socketPath string) (*MPVPlayer, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to mpv socket %s: %w", socketPath, err)
	}
	return &MPVPlayer{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: 3 * time.Second,
	}, nil
}

// Close closes the IPC connection.
func (p *MPVPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.Close()
}

// roundTrip sends one command and waits for its matching response,
// skipping interleaved event messages.
func (p *MPVPlayer) roundTrip(command ...interface{}) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requestID++
	req := mpvRequest{Command: command, RequestID: p.requestID}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(p.timeout)
	if err := p.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := p.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write mpv command: %w", err)
	}

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read mpv response: %w", err)
		}
		var resp mpvResponse
		if err := sonic.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != p.requestID {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}
		return resp.Data, nil
	}
}

func (p *MPVPlayer) getBool(property string) (bool, error) {
	data, err := p.roundTrip("get_property", property)
	if err != nil {
		return false, err
	}
	value, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("mpv property %s: unexpected type %T", property, data)
	}
	return value, nil
}

func (p *MPVPlayer) getFloat(property string) (float64, error) {
	data, err := p.roundTrip("get_property", property)
	if err != nil {
		return 0, err
	}
	value, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv property %s: unexpected type %T", property, data)
	}
	return value, nil
}

// SeekTo implements Player. mpv has no ahead-of-buffer restriction, so
// allowAhead is accepted for contract compatibility and ignored.
func (p *MPVPlayer) SeekTo(seconds float64, allowAhead bool) error {
	_, err := p.roundTrip("seek", seconds, "absolute")
	return err
}

// Play implements Player by clearing the pause property.
func (p *MPVPlayer) Play() error {
	_, err := p.roundTrip("set_property", "pause", false)
	return err
}

// CurrentTime implements Player.
func (p *MPVPlayer) CurrentTime() (float64, error) {
	return p.getFloat("time-pos")
}

// State implements Player by folding mpv's property set into the watchdog's
// state machine.
func (p *MPVPlayer) State() (State, error) {
	if idle, err := p.getBool("idle-active"); err == nil && idle {
		return StateUnstarted, nil
	}
	if eof, err := p.getBool("eof-reached"); err == nil && eof {
		return StateEnded, nil
	}
	if buffering, err := p.getBool("paused-for-cache"); err == nil && buffering {
		return StateBuffering, nil
	}
	paused, err := p.getBool("pause")
	if err != nil {
		return StateUnstarted, err
	}
	if paused {
		return StatePaused, nil
	}
	return StatePlaying, nil
}

// Duration reports the loaded media's length in seconds. Zero until mpv has
// probed the stream.
func (p *MPVPlayer) Duration() (float64, error) {
	return p.getFloat("duration")
}

// Load implements Loader by replacing the current media.
func (p *MPVPlayer) Load(target string) error {
	_, err := p.roundTrip("loadfile", target, "replace")
	return err
}

// IsMuted implements Muter.
func (p *MPVPlayer) IsMuted() (bool, error) {
	return p.getBool("mute")
}

// Unmute implements Muter.
func (p *MPVPlayer) Unmute() error {
	_, err := p.roundTrip("set_property", "mute", false)
	return err
}

// Volume implements VolumeController.
func (p *MPVPlayer) Volume() (float64, error) {
	return p.getFloat("volume")
}

// SetVolume implements VolumeController.
func (p *MPVPlayer) SetVolume(volume float64) error {
	_, err := p.roundTrip("set_property", "volume", volume)
	return err
}
