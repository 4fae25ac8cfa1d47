package dialog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	sqdialog "github.com/sqweek/dialog"
)

func TestExtensions(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.txt;*.md", []string{"txt", "md"}},
		{"*.txt", []string{"txt"}},
		{"*.*", []string{"*"}},
		{"*", []string{"*"}},
		{" *.txt ; *.md ;", []string{"txt", "md"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := extensions(tt.pattern)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extensions(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestWailsFilters(t *testing.T) {
	got := wailsFilters(TextFilters)
	if len(got) != 2 {
		t.Fatalf("got %d filters, want 2", len(got))
	}
	if got[0].DisplayName != "Text Files (*.txt;*.md)" || got[0].Pattern != "*.txt;*.md" {
		t.Errorf("first filter = %+v", got[0])
	}
	if got[1].Pattern != "*.*" {
		t.Errorf("second filter pattern = %q", got[1].Pattern)
	}
}

func TestWailsWithoutContext(t *testing.T) {
	var w Wails

	if _, err := w.OpenFile(Options{}); !errors.Is(err, ErrNoWindow) {
		t.Errorf("OpenFile err = %v, want ErrNoWindow", err)
	}
	if _, err := w.SaveFile(Options{}); !errors.Is(err, ErrNoWindow) {
		t.Errorf("SaveFile err = %v, want ErrNoWindow", err)
	}

	w.SetContext(context.Background())
	if _, err := w.context(); err != nil {
		t.Errorf("context() after SetContext: %v", err)
	}
}

func TestCancelled(t *testing.T) {
	path, err := cancelled("", sqdialog.ErrCancelled)
	if path != "" || err != nil {
		t.Errorf("cancelled(ErrCancelled) = %q, %v; want \"\", nil", path, err)
	}

	boom := errors.New("boom")
	if _, err := cancelled("", boom); !errors.Is(err, boom) {
		t.Errorf("cancelled(boom) err = %v", err)
	}

	path, err = cancelled("/tmp/a.txt", nil)
	if path != "/tmp/a.txt" || err != nil {
		t.Errorf("cancelled(path) = %q, %v", path, err)
	}
}
