package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set with -ldflags "-X github.com/spigell/jobsai/cmd.version=...". When unset
// the module version from the build info is reported.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of jobsai and the Go toolchain it was built with",
	RunE: func(_ *cobra.Command, _ []string) error {
		return writeVersion(os.Stdout, currentVersion(), viper.GetBool("json"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	App     string `json:"app"`
	Version string `json:"version"`
	Go      string `json:"go"`
}

func currentVersion() versionInfo {
	info := versionInfo{App: app, Version: version, Go: runtime.Version()}
	if info.Version != "unknown" {
		return info
	}
	if build, ok := debug.ReadBuildInfo(); ok && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}
	return info
}

func writeVersion(w io.Writer, info versionInfo, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(info)
	}
	_, err := fmt.Fprintf(w, "%s version: %s (%s)\n", info.App, info.Version, info.Go)
	return err
}
