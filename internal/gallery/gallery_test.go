package gallery

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func addFile(t *testing.T, s *Store, name string, kind ArtifactKind) Artifact {
	t.Helper()
	if err := os.WriteFile(s.Path(Artifact{FileName: name}), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := s.Add(name, kind)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestOpenEmpty(t *testing.T) {
	s := newTestStore(t)
	if len(s.Items()) != 0 {
		t.Errorf("new gallery should be empty, got %d items", len(s.Items()))
	}
}

func TestAddAndReload(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	a := addFile(t, s, "shot-1.png", KindScreenshot)
	if a.ID == "" {
		t.Fatal("artifact missing id")
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	items := s2.Items()
	if len(items) != 1 || items[0].ID != a.ID || items[0].Kind != KindScreenshot {
		t.Errorf("reloaded gallery mismatch: %+v", items)
	}
}

func TestCaptionAndFolder(t *testing.T) {
	s := newTestStore(t)
	a := addFile(t, s, "shot-1.png", KindScreenshot)

	if err := s.SetCaption(a.ID, "login page"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFolder(a.ID, "work"); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Find(a.ID)
	if !ok || got.Caption != "login page" || got.Folder != "work" {
		t.Errorf("unexpected artifact: %+v", got)
	}
	folders := s.Folders()
	if len(folders) != 1 || folders[0] != "work" {
		t.Errorf("folders = %v", folders)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetCaption("nope", "x"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRemoveDeletesFile(t *testing.T) {
	s := newTestStore(t)
	a := addFile(t, s, "shot-1.png", KindScreenshot)
	path := s.Path(a)

	if err := s.Remove(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("artifact file should be gone")
	}
	if len(s.Items()) != 0 {
		t.Error("index should be empty")
	}
}

func TestThumbnailClampsLongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	th := Thumbnail(img, 256)
	b := th.Bounds()
	if b.Dx() != 256 {
		t.Errorf("long edge = %d, want 256", b.Dx())
	}
	if b.Dy() != 144 {
		t.Errorf("short edge = %d, want 144", b.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 50, 40))
	th = Thumbnail(small, 256)
	if th.Bounds().Dx() != 50 || th.Bounds().Dy() != 40 {
		t.Errorf("small image should keep its size, got %v", th.Bounds())
	}
}

func TestWriteThumbnail(t *testing.T) {
	s := newTestStore(t)
	a := addFile(t, s, "shot-1.png", KindScreenshot)

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 30, 30, 255})
		}
	}
	path, err := s.WriteThumbnail(a, img)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != filepath.Join(s.Dir(), ".thumbs") {
		t.Errorf("thumbnail in wrong dir: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("thumbnail not written: %v", err)
	}
}
