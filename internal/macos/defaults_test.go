package macos

import (
	"context"
	"strings"
	"testing"

	"mac-bootstrap/internal/config"
	tu "mac-bootstrap/internal/testutil"
)

func TestWriteArgs(t *testing.T) {
	cases := []struct {
		s    config.Setting
		want string
	}{
		{config.Setting{Domain: "com.apple.dock", Key: "autohide", Value: "true", Type: "bool"}, "write com.apple.dock autohide -bool true"},
		{config.Setting{Domain: "com.apple.dock", Key: "tilesize", Value: "36", Type: "int"}, "write com.apple.dock tilesize -int 36"},
		{config.Setting{Domain: "NSGlobalDomain", Key: "KeyRepeat", Value: "1.5", Type: "float"}, "write NSGlobalDomain KeyRepeat -float 1.5"},
		{config.Setting{Domain: "com.apple.screencapture", Key: "type", Value: "png"}, "write com.apple.screencapture type -string png"},
	}
	for _, tc := range cases {
		if got := strings.Join(WriteArgs(tc.s), " "); got != tc.want {
			t.Errorf("WriteArgs = %q, want %q", got, tc.want)
		}
	}
}

func TestMatches(t *testing.T) {
	boolSetting := config.Setting{Value: "true", Type: "bool"}
	intSetting := config.Setting{Value: "36", Type: "int"}
	strSetting := config.Setting{Value: "png"}
	cases := []struct {
		s       config.Setting
		current string
		want    bool
	}{
		{boolSetting, "1", true},
		{boolSetting, "0", false},
		{boolSetting, "garbage", false},
		{intSetting, "36", true},
		{intSetting, "48", false},
		{strSetting, "png\n", true},
		{strSetting, "jpg", false},
	}
	for _, tc := range cases {
		if got := Matches(tc.s, tc.current); got != tc.want {
			t.Errorf("Matches(%+v, %q) = %v, want %v", tc.s, tc.current, got, tc.want)
		}
	}
}

func TestApplySkipsMatchingValues(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("defaults read com.apple.finder ShowPathbar", "1", nil)
	r.Respond("defaults read com.apple.dock autohide", "", &tu.ExitError{Code: 1})
	settings := []config.Setting{
		{Domain: "com.apple.finder", Key: "ShowPathbar", Value: "true", Type: "bool"},
		{Domain: "com.apple.dock", Key: "autohide", Value: "true", Type: "bool"},
	}

	n, err := Apply(context.Background(), r, settings)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 1 {
		t.Fatalf("wrote %d settings, want 1", n)
	}
	if r.Count("defaults write com.apple.finder") != 0 || r.Count("defaults write com.apple.dock autohide -bool true") != 1 {
		t.Fatalf("calls: %v", r.Calls())
	}
}

func TestRestartIgnoresMissingProcess(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("killall Dock", "No matching processes", &tu.ExitError{Code: 1})
	Restart(context.Background(), r, []string{"Finder", "Dock"})
	if r.Count("killall") != 2 {
		t.Fatalf("calls: %v", r.Calls())
	}
}
