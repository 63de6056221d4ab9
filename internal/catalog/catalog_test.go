package catalog

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestKey(t *testing.T) {
	cases := map[string]string{
		"Karambit":   "karambit",
		"M9 Bayonet": "m9bayonet",
		"Five-Seven": "five-seven",
		"AK-47":      "ak-47",
	}
	for in, want := range cases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	os.MkdirAll(filepath.Join(base, "weapon_karambit"), 0o755)
	os.MkdirAll(filepath.Join(base, "weapon_m9"), 0o755)
	// A file (not a dir) with a matching name must not resolve.
	os.WriteFile(filepath.Join(base, "weapon_flip"), []byte{}, 0o644)

	items, missing := Resolve([]string{"Karambit", "Bayonet", "M9", "Flip"}, base)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Name != "Karambit" || items[1].Name != "M9" {
		t.Errorf("catalog order not preserved: %v", items)
	}
	if items[0].Key != "karambit" {
		t.Errorf("item key: got %q, want karambit", items[0].Key)
	}

	if len(missing) != 2 {
		t.Fatalf("got %d missing, want 2: %v", len(missing), missing)
	}
	if missing[0] != "Bayonet" || missing[1] != "Flip" {
		t.Errorf("missing: got %v", missing)
	}
}

func TestSuffix(t *testing.T) {
	cases := map[string]string{
		"damascus_103":    "103",
		"case_hardened_5": "5",
		"plain":           "plain",
	}
	for in, want := range cases {
		if got := Suffix(in); got != want {
			t.Errorf("Suffix(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestTextures_FiltersAndSorts(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "weapon_karambit")
	os.MkdirAll(filepath.Join(dir, "raw"), 0o755)
	for _, name := range []string{"fade_38.png", "damascus_103.png", "notes.txt", "slate_UPPER.JPG"} {
		os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644)
	}

	item := Item{Name: "Karambit", Key: "karambit", TextureDir: dir}
	texs, err := Textures(item)
	if err != nil {
		t.Fatalf("Textures: %v", err)
	}

	if len(texs) != 3 {
		t.Fatalf("got %d textures, want 3", len(texs))
	}
	if texs[0].Stem != "damascus_103" {
		t.Errorf("sort order: first stem %q, want damascus_103", texs[0].Stem)
	}
	if texs[0].Suffix != "103" {
		t.Errorf("suffix: got %q, want 103", texs[0].Suffix)
	}
}

func TestTextures_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	texs, err := Textures(Item{Name: "Gut", Key: "gut", TextureDir: dir})
	if err != nil {
		t.Fatalf("Textures: %v", err)
	}
	if len(texs) != 0 {
		t.Errorf("got %d textures, want 0", len(texs))
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	// Valid PNG.
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4)))
	good := filepath.Join(dir, "good_1.png")
	os.WriteFile(good, buf.Bytes(), 0o644)

	w, h, err := Inspect(SourceTexture{Path: good, Stem: "good_1", Suffix: "1"})
	if err != nil {
		t.Fatalf("Inspect valid png: %v", err)
	}
	if w != 8 || h != 4 {
		t.Errorf("dimensions: got %dx%d, want 8x4", w, h)
	}

	// Corrupt file must error.
	bad := filepath.Join(dir, "bad_2.png")
	os.WriteFile(bad, []byte("not a png"), 0o644)
	if _, _, err := Inspect(SourceTexture{Path: bad}); err == nil {
		t.Error("corrupt texture should fail inspection")
	}
}

func TestJobs(t *testing.T) {
	item := Item{Name: "Karambit", Key: "karambit"}
	tex := SourceTexture{Stem: "damascus_103", Suffix: "103"}

	jobs := Jobs(item, tex)
	if len(jobs) != 6 {
		t.Fatalf("got %d jobs, want 6", len(jobs))
	}
	if jobs[0].String() != "Karambit/damascus_103/blade_fancy/playside" {
		t.Errorf("first job identity: %s", jobs[0])
	}
	if jobs[5].String() != "Karambit/damascus_103/mask/backside" {
		t.Errorf("last job identity: %s", jobs[5])
	}
}
