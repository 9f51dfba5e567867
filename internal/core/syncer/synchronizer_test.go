package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andalus/go-taraweeh-monitor/internal/core/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

type recordingSeeker struct {
	mu    sync.Mutex
	seeks []playback.SeekRequest
}

func (r *recordingSeeker) RequestSeek(req playback.SeekRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seeks = append(r.seeks, req)
}

func (r *recordingSeeker) all() []playback.SeekRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]playback.SeekRequest, len(r.seeks))
	copy(out, r.seeks)
	return out
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []model.TextKey
	text  model.AyahText
	err   error
	block chan struct{} // when non-nil, FetchAyah waits on it
}

func (f *fakeFetcher) FetchAyah(_ context.Context, key model.TextKey) (model.AyahText, error) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.text, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func marker(partID int, seekTime float64, surahNumber, ayah int) timeline.Marker {
	return timeline.Marker{
		Marker: model.Marker{
			Time:        seekTime,
			Surah:       "Al-Baqara",
			SurahNumber: surahNumber,
			Ayah:        ayah,
			Reciter:     "Hasan",
			Quality:     string(model.QualityHigh),
		},
		PartID:     partID,
		GlobalTime: seekTime,
		SeekTime:   seekTime,
	}
}

func newTestSynchronizer(seeker Seeker, fetcher TextFetcher) *Synchronizer {
	var c *cache.TextCache
	if fetcher != nil {
		c = cache.NewTextCache()
	}
	return New(context.Background(), seeker, fetcher, c, nil)
}

func TestActiveMarkerFollowsPlayback(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
		marker(1, 300, 2, 10),
	}, 1)

	s.Advance(150)
	m, ok := s.Displayed()
	require.True(t, ok)
	assert.Equal(t, 5, m.Ayah)

	s.Advance(300)
	m, _ = s.Displayed()
	assert.Equal(t, 10, m.Ayah)
}

func TestActiveMarkerBeforeFirst(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 60, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(10)
	m, ok := s.Displayed()
	require.True(t, ok, "first marker shown before its time")
	assert.Equal(t, 1, m.Ayah)
}

func TestEmptyTimelineDisplaysNothing(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline(nil, 1)

	s.Advance(100)
	_, ok := s.Displayed()
	assert.False(t, ok)
	assert.Equal(t, Following, s.Mode())
}

func TestPauseFreezesAndStepsNavigate(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(150)
	s.Pause()
	assert.Equal(t, ManuallyPaused, s.Mode())

	// Playback keeps moving but the display stays frozen.
	s.Advance(500)
	m, _ := s.Displayed()
	assert.Equal(t, 5, m.Ayah)

	s.StepBackward()
	m, _ = s.Displayed()
	assert.Equal(t, 1, m.Ayah)

	s.StepBackward() // clamped at the start
	m, _ = s.Displayed()
	assert.Equal(t, 1, m.Ayah)

	s.StepForward()
	s.StepForward() // clamped at the end
	m, _ = s.Displayed()
	assert.Equal(t, 5, m.Ayah)
}

func TestResumeSnapsBackToLivePosition(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(150)
	s.Pause()
	s.StepBackward()
	m, _ := s.Displayed()
	require.Equal(t, 1, m.Ayah)

	s.Resume()
	assert.Equal(t, Following, s.Mode())
	m, _ = s.Displayed()
	assert.Equal(t, 5, m.Ayah, "resume reflects the live time without seeking")
}

func TestStepIgnoredWhileFollowing(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(150)
	s.StepBackward()
	m, _ := s.Displayed()
	assert.Equal(t, 5, m.Ayah)
}

func TestSeekToSamePartIssuesFreshNonces(t *testing.T) {
	seeker := &recordingSeeker{}
	s := newTestSynchronizer(seeker, nil)
	s.SetTimeline([]timeline.Marker{marker(1, 0, 2, 1)}, 1)

	s.SeekTo(1, 40)
	s.SeekTo(1, 90)

	seeks := seeker.all()
	require.Len(t, seeks, 2)
	assert.Equal(t, 40.0, seeks[0].Target)
	assert.Equal(t, 90.0, seeks[1].Target)
	assert.Greater(t, seeks[1].Nonce, seeks[0].Nonce, "each seek carries a fresh nonce")
}

func TestSeekToForcesFollowing(t *testing.T) {
	seeker := &recordingSeeker{}
	s := newTestSynchronizer(seeker, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(150)
	s.Pause()
	s.SeekTo(1, 10)

	assert.Equal(t, Following, s.Mode())
}

func TestSeekToOtherPartDefersToSwitcher(t *testing.T) {
	seeker := &recordingSeeker{}
	var switchedPart int
	var switchedTime float64
	s := New(context.Background(), seeker, nil, nil, func(partID int, seekTime float64) {
		switchedPart = partID
		switchedTime = seekTime
	})
	s.SetTimeline([]timeline.Marker{marker(1, 0, 2, 1)}, 1)

	s.SeekTo(2, 40)

	assert.Empty(t, seeker.all(), "no direct seek when the part changes")
	assert.Equal(t, 2, switchedPart)
	assert.Equal(t, 40.0, switchedTime)
}

func TestNewActiveMarkerTriggersTextFetch(t *testing.T) {
	fetcher := &fakeFetcher{text: model.AyahText{Arabic: "نص", English: "text", Available: true}}
	s := newTestSynchronizer(nil, fetcher)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(1, 120, 2, 5),
	}, 1)

	s.Advance(10)
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// Re-advancing within the same marker does not re-fetch.
	s.Advance(50)
	s.Advance(100)
	assert.Equal(t, 1, fetcher.callCount())

	s.Advance(130)
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, 5*time.Millisecond)

	text := s.Text(timeline.Marker{Marker: model.Marker{SurahNumber: 2, Ayah: 5}})
	assert.True(t, text.Available)
	assert.Equal(t, "text", text.English)
}

func TestFailedFetchSettlesAsUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("service down")}
	s := newTestSynchronizer(nil, fetcher)
	s.SetTimeline([]timeline.Marker{marker(1, 0, 2, 1)}, 1)

	s.Advance(10)
	require.Eventually(t, func() bool {
		_, ok := s.textCache.Get(model.TextKey{SurahNumber: 2, Ayah: 1})
		return ok
	}, time.Second, 5*time.Millisecond)

	text, ok := s.textCache.Get(model.TextKey{SurahNumber: 2, Ayah: 1})
	require.True(t, ok)
	assert.False(t, text.Available)

	// The failure is settled; bouncing across the marker does not retry.
	s.Advance(500)
	s.Advance(10)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestMarkerWithEmbeddedTextSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSynchronizer(nil, fetcher)
	m := marker(1, 0, 2, 1)
	m.ArabicText = "نص"
	m.EnglishText = "text"
	s.SetTimeline([]timeline.Marker{m}, 1)

	s.Advance(10)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, fetcher.callCount())

	text := s.Text(m)
	assert.True(t, text.Available)
	assert.Equal(t, "نص", text.Arabic)
}

func TestStaleFetchDiscardedAfterTimelineSwap(t *testing.T) {
	block := make(chan struct{})
	fetcher := &fakeFetcher{text: model.AyahText{Available: true}, block: block}
	s := newTestSynchronizer(nil, fetcher)
	s.SetTimeline([]timeline.Marker{marker(1, 0, 2, 1)}, 1)

	s.Advance(10)
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// Swap the timeline while the fetch is in flight, then release it.
	s.SetTimeline([]timeline.Marker{marker(1, 0, 19, 1)}, 1)
	close(block)

	assert.Never(t, func() bool {
		_, ok := s.textCache.Get(model.TextKey{SurahNumber: 2, Ayah: 1})
		return ok
	}, 100*time.Millisecond, 10*time.Millisecond, "stale result must not land in the fresh cache")
}

func TestSetTimelineResetsManualPause(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{marker(1, 0, 2, 1)}, 1)
	s.Advance(10)
	s.Pause()

	s.SetTimeline([]timeline.Marker{marker(2, 0, 19, 1)}, 2)
	assert.Equal(t, Following, s.Mode())
	assert.Equal(t, 2, s.ActivePart())

	_, ok := s.Displayed()
	assert.False(t, ok, "no sample yet after the swap")
}

func TestTimelineFiltersToActivePart(t *testing.T) {
	s := newTestSynchronizer(nil, nil)
	s.SetTimeline([]timeline.Marker{
		marker(1, 0, 2, 1),
		marker(2, 40, 2, 255),
	}, 2)

	s.Advance(50)
	m, ok := s.Displayed()
	require.True(t, ok)
	assert.Equal(t, 255, m.Ayah)
	assert.Equal(t, 2, m.PartID)
}
