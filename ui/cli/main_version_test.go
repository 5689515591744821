package cli

import (
	"runtime/debug"
	"testing"
)

func TestResolveBuildVersion_FromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "v1.2.3"
	info.Settings = []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2025-10-26T12:00:00Z"},
	}

	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected version v1.2.3, got %q", v)
	}
	if c != "abc123" {
		t.Fatalf("expected commit abc123, got %q", c)
	}
	if d != "2025-10-26T12:00:00Z" {
		t.Fatalf("expected build date, got %q", d)
	}
}

func TestResolveBuildVersion_DevelFallsBackToDeps(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "(devel)"
	info.Deps = []*debug.Module{
		{Path: "github.com/toeirei/passforge", Version: "v0.9.0"},
	}

	v, _, _ := resolveBuildVersion(info)
	if v != "v0.9.0" {
		t.Fatalf("expected dependency version fallback, got %q", v)
	}
}

func TestCompositeVersionString_NonEmpty(t *testing.T) {
	if compositeVersionString() == "" {
		t.Fatal("composite version must never be empty")
	}
}
