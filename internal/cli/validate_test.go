package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/adcopy-backend/internal/compliance"
)

func runValidate(t *testing.T, args ...string) (compliance.Report, error) {
	t.Helper()
	cmd := NewValidateCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()

	var rep compliance.Report
	if out.Len() > 0 {
		if decErr := json.Unmarshal(out.Bytes(), &rep); decErr != nil {
			t.Fatalf("decode output: %v\n%s", decErr, out.String())
		}
	}
	return rep, err
}

func TestNewValidateCmd(t *testing.T) {
	cmd := NewValidateCmd()
	if cmd.Use != "validate [copy text]" {
		t.Fatalf("Use = %q", cmd.Use)
	}
	for _, name := range []string{"platform", "ad-type", "field", "spec", "strict"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("flag %q not registered", name)
		}
	}
}

func TestValidateCommandReportsViolations(t *testing.T) {
	rep, err := runValidate(t, "--platform", "kakao", "--field", "title", "최고의 선택, 지금 30% 할인!")
	if err != nil {
		t.Fatalf("unexpected error without --strict: %v", err)
	}
	if rep.Compliant || rep.CharCount != 18 || rep.MaxChars != 20 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Violations) == 0 || len(rep.Warnings) == 0 {
		t.Fatalf("expected violations and warnings: %+v", rep)
	}
}

func TestValidateCommandStrict(t *testing.T) {
	_, err := runValidate(t, "--strict", "-p", "kakao", "-f", "title", "최고의 선택")
	if !errors.Is(err, ErrNonCompliant) {
		t.Fatalf("err = %v, want ErrNonCompliant", err)
	}

	rep, err := runValidate(t, "--strict", "-p", "kakao", "-f", "title", "봄 신상품 입고")
	if err != nil || !rep.Compliant {
		t.Fatalf("compliant copy: err=%v rep=%+v", err, rep)
	}
}

func TestValidateCommandRequiresInputs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no text", []string{"--platform", "kakao", "--field", "title"}},
		{"no platform", []string{"--field", "title", "text"}},
		{"no field", []string{"--platform", "kakao", "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runValidate(t, tt.args...); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

func TestValidateCommandSpecOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	raw := `version: "test"
platforms:
  - platform: tiktok
    display_name: TikTok
    default_ad_type: in_feed
    ad_types:
      - ad_type: in_feed
        fields:
          title: {min: 1, max: 5}
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	rep, err := runValidate(t, "--spec", path, "-p", "tiktok", "-f", "title", "toolongtext")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.Known || rep.Compliant || rep.MaxChars != 5 {
		t.Fatalf("report = %+v", rep)
	}
}
