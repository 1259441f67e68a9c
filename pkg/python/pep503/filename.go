package pep503

import (
	"fmt"
	"strings"

	"github.com/datawire/gitver/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var sdistSuffixes = []string{
	".tar.gz",
	".tar.bz2",
	".tar.xz",
	".tar.Z",
	".tar",
	".tgz",
	".tbz",
	".zip",
}

// FileVersion extracts the version from the name of a wheel ("NAME-VERSION[-BUILD]-PY-ABI-PLAT.whl")
// or an sdist ("NAME-VERSION.tar.gz" and friends).  The NAME must normalize to the same thing as
// pkgname.
func FileVersion(pkgname, filename string) (*pep440.Version, error) {
	canonName := Normalize(pkgname)

	var verStr string
	if strings.HasSuffix(filename, ".whl") {
		parts := strings.Split(strings.TrimSuffix(filename, ".whl"), "-")
		if len(parts) != 5 && len(parts) != 6 {
			return nil, fmt.Errorf("wheel filename %q: has %d dash-separated parts, expected 5 or 6",
				filename, len(parts))
		}
		if Normalize(parts[0]) != canonName {
			return nil, fmt.Errorf("wheel filename %q: not for project %q", filename, pkgname)
		}
		verStr = parts[1]
	} else {
		var nameVersion string
		for _, suffix := range sdistSuffixes {
			if strings.HasSuffix(filename, suffix) {
				nameVersion = strings.TrimSuffix(filename, suffix)
				break
			}
		}
		if nameVersion == "" {
			return nil, fmt.Errorf("not a wheel or sdist filename: %q", filename)
		}
		// The name in an sdist filename is not escaped and may itself contain dashes, so take
		// the first split point whose left side normalizes to the project name.
		for i := 0; i < len(nameVersion); i++ {
			if nameVersion[i] == '-' && Normalize(nameVersion[:i]) == canonName {
				verStr = nameVersion[i+1:]
				break
			}
		}
		if verStr == "" {
			return nil, fmt.Errorf("sdist filename %q: not for project %q", filename, pkgname)
		}
	}

	ver, err := pep440.ParseVersion(verStr)
	if err != nil {
		return nil, fmt.Errorf("filename %q: %w", filename, err)
	}
	return ver, nil
}
