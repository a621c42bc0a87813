//go:build windows

// Copyright 2026 Blink Labs Software
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

package keystore

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// Well-known groups, by SDDL abbreviation and by SID, that must not be
// granted access to a signing key
var insecureTrustees = map[string]string{
	"WD":           "Everyone",
	"S-1-1-0":      "Everyone",
	"BU":           "BUILTIN\\Users",
	"S-1-5-32-545": "BUILTIN\\Users",
	"AU":           "Authenticated Users",
	"S-1-5-11":     "Authenticated Users",
}

// checkOpenFilePermissions inspects the DACL of the file by path. NTFS does
// not let an open file be replaced, so the path still names the handle.
func checkOpenFilePermissions(f *os.File) error {
	if strings.EqualFold(os.Getenv(envAllowInsecureKeyPerms), "true") {
		slog.Warn(
			"signing key ACL check bypassed",
			"path", f.Name(),
			"env_var", envAllowInsecureKeyPerms,
		)
		return nil
	}
	return checkFilePermissions(f.Name())
}

func checkFilePermissions(path string) error {
	// The descriptor is LocalAlloc'd and freeing it needs unsafe, which
	// trips go.dev/issue/73199. It is small and only read for key files.
	sd, err := windows.GetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION,
	)
	if err != nil {
		return fmt.Errorf("failed to get security info for %q: %w", path, err)
	}
	sddl := sd.String()
	if sddl == "" {
		return fmt.Errorf("failed to read security descriptor for %q", path)
	}
	return checkSDDL(path, sddl)
}

// checkSDDL fails if the DACL in sddl is missing or allows access to one of
// the insecure trustees
func checkSDDL(path, sddl string) error {
	_, dacl, ok := strings.Cut(sddl, "D:")
	if !ok {
		return fmt.Errorf(
			"signing key file %q has no DACL: %w",
			path,
			ErrInsecureFileMode,
		)
	}
	dacl, _, _ = strings.Cut(dacl, "S:")
	for {
		_, rest, ok := strings.Cut(dacl, "(")
		if !ok {
			return nil
		}
		ace, next, ok := strings.Cut(rest, ")")
		if !ok {
			return nil
		}
		dacl = next
		// type;flags;rights;object;inherit;trustee
		fields := strings.Split(ace, ";")
		if len(fields) < 6 || fields[0] != "A" {
			continue
		}
		if name, ok := insecureTrustees[fields[5]]; ok {
			return fmt.Errorf(
				"signing key file %q grants access to %s: %w",
				path,
				name,
				ErrInsecureFileMode,
			)
		}
	}
}
