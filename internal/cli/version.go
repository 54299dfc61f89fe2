package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Revision  string `json:"revision,omitempty"`
}

func (v versionInfo) renderText(s styles) string {
	text := "activityinfo " + s.accent(v.Version)
	if v.Revision != "" {
		text += " " + s.muted(v.Revision)
	}
	return text + " " + s.muted(fmt.Sprintf("(%s)", v.GoVersion))
}

// NewVersionCommand creates the version command.
func NewVersionCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.formatter(cmd).Success(currentVersion())
		},
	}
}

func currentVersion() versionInfo {
	v := versionInfo{Version: Version, GoVersion: runtime.Version()}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				v.Revision = setting.Value
			}
		}
	}
	return v
}
