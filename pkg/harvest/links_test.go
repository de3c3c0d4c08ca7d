package harvest

import (
	"reflect"
	"testing"
)

func TestDiscoverLinks(t *testing.T) {
	page := []byte(`<html><body>
		<a href="/reviews/albums/horses/">Horses</a>
		<a href="https://pitchfork.com/news/">News</a>
		<a href="https://example.com/elsewhere">Elsewhere</a>
		<a href="/reviews/albums/horses/#comments">Comments</a>
		<a href="mailto:tips@pitchfork.com">Tips</a>
		<a>no href</a>
	</body></html>`)

	links, err := DiscoverLinks(page, "https://pitchfork.com/reviews/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"https://pitchfork.com/reviews/albums/horses/",
		"https://pitchfork.com/news/",
		"https://example.com/elsewhere",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("links = %v, want %v", links, want)
	}
}

func TestFilterSameHost(t *testing.T) {
	links := []string{
		"https://pitchfork.com/reviews/albums/horses/",
		"https://example.com/elsewhere",
		"https://pitchfork.com/news/",
	}

	got := FilterSameHost(links, "https://pitchfork.com/")
	want := []string{
		"https://pitchfork.com/reviews/albums/horses/",
		"https://pitchfork.com/news/",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filtered = %v, want %v", got, want)
	}
}
