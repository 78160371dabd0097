package main

import (
	"bytes"
	"flag"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/hw3d/pkg/texprep"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("hw3d", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr string
	}{
		{"defaults", nil, options{configPath: "hw3d.yml"}, ""},
		{
			"all",
			[]string{"-config", "a.yml", "-scene", "s.zy", "-debug", "-twerk-objnorm", "m.obj"},
			options{configPath: "a.yml", scenePath: "s.zy", debug: true, twerkObj: "m.obj"},
			"",
		},
		{"unknown flag", []string{"-fullscreen"}, options{}, "not defined"},
		{"stray argument", []string{"model.obj"}, options{}, "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(newFlagSet(), tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("options = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunToolWithoutToolFlag(t *testing.T) {
	ran, err := runTool(options{configPath: "hw3d.yml"}, io.Discard)
	if ran || err != nil {
		t.Errorf("runTool = %v, %v, want false, nil", ran, err)
	}
}

func TestRunToolFlipsNormalMaps(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "crate.obj")
	mapPath := filepath.Join(dir, "crate_n.png")
	write := func(path, body string) {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(obj, "mtllib crate.mtl\nv 0 0 0\n")
	write(filepath.Join(dir, "crate.mtl"), "newmtl wood\nmap_Bump crate_n.png\n")

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, color.NRGBA{R: 128, G: 200, B: 255, A: 255})
	}
	if err := texprep.SaveImage(mapPath, img); err != nil {
		t.Fatal(err)
	}

	var progress bytes.Buffer
	o, err := parseFlags(newFlagSet(), []string{"-twerk-objnorm", obj})
	if err != nil {
		t.Fatal(err)
	}
	ran, err := runTool(o, &progress)
	if !ran || err != nil {
		t.Fatalf("runTool = %v, %v, want true, nil", ran, err)
	}

	got, err := texprep.LoadImage(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	if c := got.NRGBAAt(1, 1); c.G != 55 || c.R != 128 || c.B != 255 {
		t.Errorf("flipped texel = %v, want G 55 with R and B kept", c)
	}
}

func TestRunToolReportsFailure(t *testing.T) {
	o := options{twerkObj: filepath.Join(t.TempDir(), "missing.obj")}
	ran, err := runTool(o, io.Discard)
	if !ran {
		t.Fatal("runTool did not take the tool path")
	}
	if err == nil || !strings.Contains(err.Error(), "twerk-objnorm") {
		t.Errorf("err = %v, want a twerk-objnorm error", err)
	}
}
