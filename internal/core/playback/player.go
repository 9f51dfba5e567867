package playback

// State is the playback state reported by the external player.
type State int

const (
	StateUnstarted State = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Player is the contract an external playback handle must expose. All calls
// are best-effort from the watchdog's point of view: errors are logged and
// swallowed, never surfaced to the user.
type Player interface {
	// SeekTo moves playback to the given second. allowAhead permits seeking
	// past the buffered range.
	SeekTo(seconds float64, allowAhead bool) error
	Play() error
	CurrentTime() (float64, error)
	State() (State, error)
}

// Loader is an optional player capability for replacing the loaded media,
// used when a seek crosses into another part's video.
type Loader interface {
	Load(target string) error
}

// Muter is an optional player capability. Its absence disables the unmute
// guard without affecting the rest of the watchdog.
type Muter interface {
	IsMuted() (bool, error)
	Unmute() error
}

// VolumeController is an optional player capability. Its absence disables the
// zero-volume guard without affecting the rest of the watchdog.
type VolumeController interface {
	Volume() (float64, error)
	SetVolume(volume float64) error
}
