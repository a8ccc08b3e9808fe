// Copyright 2025 Hierlock Authors
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

package version

import (
	"github.com/Masterminds/semver/v3"
)

// appVersion is overridden at build time via
// -ldflags "-X github.com/hierlock/hierlock/pkg/version.appVersion=...".
var appVersion = "0.1.0"

// GetAppVersion returns the build version, normalized to strict semver.
// A malformed build override falls back to the raw string rather than failing
// startup over a cosmetic value.
func GetAppVersion() string {
	v, err := semver.NewVersion(appVersion)
	if err != nil {
		return appVersion
	}

	return v.String()
}
