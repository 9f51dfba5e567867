package quran

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

func TestFetchAyah(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ayah/2:255/editions/quran-uthmani,en.asad", r.URL.Path)
		w.Write([]byte(`{
			"code": 200,
			"data": [
				{"text": "اللّهُ لاَ إِلَـهَ إِلاَّ هُوَ", "edition": {"identifier": "quran-uthmani"}},
				{"text": "GOD - there is no deity save Him", "edition": {"identifier": "en.asad"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.FetchAyah(context.Background(), model.TextKey{SurahNumber: 2, Ayah: 255})
	require.NoError(t, err)

	assert.True(t, text.Available)
	assert.Contains(t, text.Arabic, "اللّهُ")
	assert.Contains(t, text.English, "GOD")
}

func TestFetchAyahServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.FetchAyah(context.Background(), model.TextKey{SurahNumber: 2, Ayah: 255})
	assert.Error(t, err)
	assert.False(t, text.Available)
}

func TestFetchAyahMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.FetchAyah(context.Background(), model.TextKey{SurahNumber: 19, Ayah: 1})
	assert.Error(t, err)
	assert.False(t, text.Available)
}

func TestFetchAyahEmptyEditions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.FetchAyah(context.Background(), model.TextKey{SurahNumber: 19, Ayah: 1})
	assert.Error(t, err)
	assert.False(t, text.Available)
}

func TestFetchAyahUnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.FetchAyah(context.Background(), model.TextKey{SurahNumber: 1, Ayah: 1})
	assert.Error(t, err)
}

func TestNewClientDefaultURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
