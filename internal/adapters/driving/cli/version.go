package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the digest version. With --long, also print the Go toolchain,
platform and, for builds from a git checkout, the commit it was built from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		long, err := cmd.Flags().GetBool("long")
		if err != nil {
			return err
		}
		printVersion(cmd.OutOrStdout(), long, readBuildInfo())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("long", "l", false, "include build details")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what the binary knows about how it was built.
type buildInfo struct {
	goVersion string
	revision  string
	modified  bool
}

func readBuildInfo() buildInfo {
	info := buildInfo{goVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.revision = s.Value
		case "vcs.modified":
			info.modified = s.Value == "true"
		}
	}
	return info
}

func printVersion(w io.Writer, long bool, info buildInfo) {
	fmt.Fprintf(w, "digest version %s\n", version)
	if !long {
		return
	}
	fmt.Fprintf(w, "  go:       %s\n", info.goVersion)
	fmt.Fprintf(w, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if info.revision != "" {
		rev := info.revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if info.modified {
			rev += " (modified)"
		}
		fmt.Fprintf(w, "  commit:   %s\n", rev)
	}
}
