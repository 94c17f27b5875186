package branding

import "testing"

func TestIdentity(t *testing.T) {
	if got := CLIName(); got != "widgetgen" {
		t.Errorf("CLIName() = %q, want %q", got, "widgetgen")
	}
	if got := HomeDir(); got != ".widgetgen" {
		t.Errorf("HomeDir() = %q, want %q", got, ".widgetgen")
	}
	if got := EnvVar("skip_install"); got != "WIDGETGEN_SKIP_INSTALL" {
		t.Errorf("EnvVar() = %q, want %q", got, "WIDGETGEN_SKIP_INSTALL")
	}
}
