package image

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// countingFs records how often files are opened.
type countingFs struct {
	afero.Fs
	opens int
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens++
	return c.Fs.Open(name)
}

// brokenFs reports every file as present but fails to open it.
type brokenFs struct {
	afero.Fs
}

func (brokenFs) Open(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("device not ready")}
}

func TestResolveRemotePassthrough(t *testing.T) {
	fs := &countingFs{Fs: afero.NewMemMapFs()}
	r := NewResolver(fs)

	for _, ref := range []string{"http://example.com/a.png", "https://example.com/b.jpg?x=1"} {
		first, err := r.Resolve(ref)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", ref, err)
		}
		second, err := r.Resolve(first)
		if err != nil {
			t.Fatalf("Resolve(%q) second call error = %v", ref, err)
		}
		if first != ref || second != ref {
			t.Errorf("Resolve(%q) = %q then %q, want unchanged", ref, first, second)
		}
	}
	if fs.opens != 0 {
		t.Errorf("remote references opened %d files, want 0", fs.opens)
	}
}

func TestResolveLocalFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, filepath.FromSlash("img/pic.png"), []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(fs)

	tests := []struct {
		name string
		ref  string
	}{
		{name: "forward slashes", ref: "img/pic.png"},
		{name: "backslashes", ref: `img\pic.png`},
		{name: "redundant segments", ref: "img/./../img/pic.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			// PNG content is still labelled as JPEG.
			if want := "data:image/jpeg;base64,AA=="; got != want {
				t.Errorf("Resolve() = %q, want %q", got, want)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(afero.NewMemMapFs())

	_, err := r.Resolve("missing.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() error type = %T, want *ResolutionError", err)
	}
	if resErr.Ref != "missing.jpg" {
		t.Errorf("ResolutionError.Ref = %q, want %q", resErr.Ref, "missing.jpg")
	}
}

func TestResolveIOFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "pic.jpg", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(brokenFs{Fs: base})

	_, err := r.Resolve("pic.jpg")
	if !errors.Is(err, ErrIOFailure) {
		t.Fatalf("Resolve() error = %v, want ErrIOFailure", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error matched ErrNotFound")
	}
}
