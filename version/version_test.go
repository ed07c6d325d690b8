package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := fromBuildInfo(bi, true)
	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("expected vcs time, got %q", info.BuildTime)
	}
	if info.GoVersion != "go1.25.0" {
		t.Errorf("expected go version, got %q", info.GoVersion)
	}
	if got := info.String(); got != Version+"-0123456-dirty" {
		t.Errorf("unexpected version string %q", got)
	}
}

func TestFromBuildInfo_Unavailable(t *testing.T) {
	info := fromBuildInfo(nil, false)
	if info.String() != Version {
		t.Errorf("expected bare version, got %q", info.String())
	}
}
