package playback

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMPV serves a minimal slice of mpv's JSON IPC protocol.
type fakeMPV struct {
	listener net.Listener
	props    map[string]interface{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)

	f := &fakeMPV{
		listener: listener,
		props: map[string]interface{}{
			"pause":            false,
			"idle-active":      false,
			"eof-reached":      false,
			"paused-for-cache": false,
			"time-pos":         123.5,
			"mute":             false,
			"volume":           70.0,
		},
	}
	go f.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return f
}

func (f *fakeMPV) addr() string {
	return f.listener.Addr().String()
}

func (f *fakeMPV) serve() {
	conn, err := f.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var req mpvRequest
		if err := sonic.Unmarshal(line, &req); err != nil {
			continue
		}

		// Interleave an event before every response, as mpv does.
		event, _ := sonic.Marshal(map[string]string{"event": "property-change"})
		conn.Write(append(event, '\n'))

		resp := mpvResponse{Error: "success", RequestID: req.RequestID}
		switch req.Command[0] {
		case "get_property":
			name := req.Command[1].(string)
			value, ok := f.props[name]
			if !ok {
				resp.Error = "property not found"
			}
			resp.Data = value
		case "set_property":
			name := req.Command[1].(string)
			f.props[name] = req.Command[2]
		case "seek":
			f.props["time-pos"] = req.Command[1]
		default:
			resp.Error = "invalid command"
		}

		payload, _ := sonic.Marshal(resp)
		conn.Write(append(payload, '\n'))
	}
}

func TestMPVPlayerRoundTrips(t *testing.T) {
	fake := newFakeMPV(t)
	player, err := DialMPV(fake.addr())
	require.NoError(t, err)
	defer player.Close()

	seconds, err := player.CurrentTime()
	require.NoError(t, err)
	assert.Equal(t, 123.5, seconds)

	state, err := player.State()
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, state)

	require.NoError(t, player.SeekTo(480, true))
	seconds, err = player.CurrentTime()
	require.NoError(t, err)
	assert.Equal(t, 480.0, seconds)

	muted, err := player.IsMuted()
	require.NoError(t, err)
	assert.False(t, muted)

	volume, err := player.Volume()
	require.NoError(t, err)
	assert.Equal(t, 70.0, volume)
	require.NoError(t, player.SetVolume(100))
	volume, err = player.Volume()
	require.NoError(t, err)
	assert.Equal(t, 100.0, volume)
}

func TestMPVPlayerStateMapping(t *testing.T) {
	fake := newFakeMPV(t)
	fake.props["pause"] = true
	player, err := DialMPV(fake.addr())
	require.NoError(t, err)
	defer player.Close()

	state, err := player.State()
	require.NoError(t, err)
	assert.Equal(t, StatePaused, state)

	require.NoError(t, player.Play())
	state, err = player.State()
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, state)
}

func TestMPVPlayerBufferingState(t *testing.T) {
	fake := newFakeMPV(t)
	fake.props["paused-for-cache"] = true
	player, err := DialMPV(fake.addr())
	require.NoError(t, err)
	defer player.Close()

	state, err := player.State()
	require.NoError(t, err)
	assert.Equal(t, StateBuffering, state)
}

func TestMPVPlayerPropertyError(t *testing.T) {
	fake := newFakeMPV(t)
	delete(fake.props, "time-pos")
	player, err := DialMPV(fake.addr())
	require.NoError(t, err)
	defer player.Close()

	_, err = player.CurrentTime()
	assert.Error(t, err)
}

func TestDialMPVMissingSocket(t *testing.T) {
	_, err := DialMPV(filepath.Join(t.TempDir(), "absent.sock"))
	assert.Error(t, err)
}

func TestMPVPlayerDuration(t *testing.T) {
	fake := newFakeMPV(t)
	fake.props["duration"] = 5400.0
	player, err := DialMPV(fake.addr())
	require.NoError(t, err)
	defer player.Close()

	duration, err := player.Duration()
	require.NoError(t, err)
	assert.Equal(t, 5400.0, duration)
}
