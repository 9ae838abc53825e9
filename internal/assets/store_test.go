package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// sprite builds a 4x2 PNG: six red pixels, one blue, one transparent.
func sprite(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	img.Set(3, 1, color.NRGBA{B: 255, A: 255})
	img.Set(0, 0, color.NRGBA{})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSlug(t *testing.T) {
	slugPattern := regexp.MustCompile(`^[a-z0-9_]{1,30}$`)

	cases := map[string]string{
		"A Brave Knight!! 2024":   "a_brave_knight_2024",
		"fire-breathing   dragon": "fire_breathing_dragon",
		"!!!":                     "image",
		"":                        "image",
		"Épée de feu":             "p_e_de_feu",
		"a very long description that keeps going and going": "a_very_long_description_that_k",
		"abcdefghijklmnopqrstuvwxyz012 tail":                 "abcdefghijklmnopqrstuvwxyz012",
	}
	for in, want := range cases {
		got := Slug(in)
		require.Equal(t, want, got, in)
		require.Regexp(t, slugPattern, got)
	}
}

func TestStripDataURL(t *testing.T) {
	require.Equal(t, "QUJD", StripDataURL("data:image/png;base64,QUJD"))
	require.Equal(t, "QUJD", StripDataURL("  data:image/webp;base64,QUJD"))
	require.Equal(t, "QUJD", StripDataURL("QUJD"))
	require.Equal(t, "data:text/plain,hello", StripDataURL("data:text/plain,hello"))
}

func TestDecodeBase64_Variants(t *testing.T) {
	want := []byte("pixel art?")
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		got, err := DecodeBase64(enc.EncodeToString(want))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	got, err := DecodeBase64("data:image/png;base64," + base64.StdEncoding.EncodeToString(want))
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = DecodeBase64("%%% not base64 %%%")
	require.ErrorIs(t, err, ErrDecode)
	_, err = DecodeBase64("   ")
	require.ErrorIs(t, err, ErrDecode)
}

func TestStore_SaveBase64_WritesAndInspects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gameassets")
	store := NewStore(dir, 0, common.NewSilentLogger())
	raw := sprite(t)

	saved, err := store.SaveBase64("A Brave Knight!! 2024", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a_brave_knight_2024.png"), saved.Path)

	onDisk, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	require.Equal(t, raw, onDisk)

	require.Equal(t, len(raw), saved.Bytes)
	require.Equal(t, 4, saved.Width)
	require.Equal(t, 2, saved.Height)
	require.Equal(t, 2, saved.Colors)
	require.Equal(t, []string{"#ff0000", "#0000ff"}, saved.Palette)
	require.Empty(t, saved.PreviewPath)
}

func TestStore_SaveBase64_Preview(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 4, nil)

	saved, err := store.SaveBase64("slime", base64.StdEncoding.EncodeToString(sprite(t)))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "slime_x4.png"), saved.PreviewPath)

	f, err := os.Open(saved.PreviewPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Width)
	require.Equal(t, 8, cfg.Height)
}

func TestStore_SaveBase64_NonImageBytesStillSaved(t *testing.T) {
	store := NewStore(t.TempDir(), 4, nil)
	saved, err := store.SaveBase64("notes", base64.StdEncoding.EncodeToString([]byte("not a png")))
	require.NoError(t, err)
	require.Zero(t, saved.Width)
	require.Zero(t, saved.Colors)
	require.Empty(t, saved.PreviewPath)
	require.FileExists(t, saved.Path)
}

func TestStore_SaveBase64_WriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// The output "directory" is a regular file, so MkdirAll fails.
	store := NewStore(blocker, 0, nil)
	_, err := store.SaveBase64("knight", base64.StdEncoding.EncodeToString(sprite(t)))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrWrite))
}

func TestStore_SaveBase64_DecodeFailure(t *testing.T) {
	store := NewStore(t.TempDir(), 0, nil)
	_, err := store.SaveBase64("knight", "***")
	require.ErrorIs(t, err, ErrDecode)
}
