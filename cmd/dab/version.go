// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// devVersion is reported when the binary was not built from a tagged module
const devVersion = "dev"

// VersionInfo represents the version information of the binary
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	VCS       string `json:"vcs"`
	Revision  string `json:"revision"`
	Time      string `json:"time"`
	Modified  bool   `json:"modified"`
}

// GetVersionInfo returns the version information from build info
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   devVersion,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs":
				info.VCS = setting.Value
			case "vcs.revision":
				info.Revision = setting.Value
			case "vcs.time":
				info.Time = setting.Value
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}

	return info
}

// shortRevision trims a VCS revision to the length git prints by default
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// FormatVersion returns the --version output: the version line, then the
// build line when VCS information is embedded, then the toolchain line.
func FormatVersion() string {
	return formatVersion(GetVersionInfo())
}

func formatVersion(info *VersionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dab %s\n", info.Version)
	if info.Revision != "" {
		fmt.Fprintf(&b, "%s %s", info.VCS, shortRevision(info.Revision))
		if info.Modified {
			b.WriteString("-dirty")
		}
		if info.Time != "" {
			fmt.Fprintf(&b, " (%s)", info.Time)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s\n", info.GoVersion, info.Platform)
	return b.String()
}
