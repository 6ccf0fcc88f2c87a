package config

import (
	"io"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != DefaultPort || cfg.CanvasSize != DefaultCanvasSize || cfg.Share || cfg.Viewer() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !strings.HasSuffix(cfg.PicturesDir, "Sketchpad") {
		t.Errorf("pictures dir = %s", cfg.PicturesDir)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"-share", "-port", "9001", "-pictures", "/tmp/p", "-stroke", "5"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Share || cfg.Port != 9001 || cfg.PicturesDir != "/tmp/p" || cfg.StrokeWidth != 5 {
		t.Fatalf("got %+v", cfg)
	}

	cfg, err = Parse([]string{"sketchpad://10.0.0.3:8899"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Viewer() || cfg.Link != "sketchpad://10.0.0.3:8899" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := [][]string{
		{"-port", "0"},
		{"-size", "-1"},
		{"-share", "-browse"},
		{"a", "b"},
		{"-nope"},
	}
	for _, args := range cases {
		if _, err := Parse(args, io.Discard); err == nil {
			t.Errorf("Parse(%v) should fail", args)
		}
	}
}

func TestPreferences(t *testing.T) {
	a := test.NewTempApp(t)
	prefs := a.Preferences()

	cfg, _ := Parse(nil, io.Discard)
	cfg.RememberPicturesDir(prefs, "/srv/pictures")

	next, _ := Parse(nil, io.Discard)
	next.ApplyPreferences(prefs)
	if next.PicturesDir != "/srv/pictures" {
		t.Fatalf("remembered dir not applied: %s", next.PicturesDir)
	}

	flagged, _ := Parse([]string{"-pictures", "/flag"}, io.Discard)
	flagged.ApplyPreferences(prefs)
	if flagged.PicturesDir != "/flag" {
		t.Fatalf("flag should win over preference: %s", flagged.PicturesDir)
	}
}
