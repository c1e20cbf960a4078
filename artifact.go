package filestore

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// schemePattern matches a leading "scheme:" per RFC 3986. A bare
// single-letter match is excluded elsewhere since it is far more likely
// to be a Windows drive letter than a URI scheme.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// BuildExperimentArtifactURI composes the artifact_location of a new
// experiment given the tracking store's configured artifact root URI.
func BuildExperimentArtifactURI(rootURI, experimentID string) string {
	return appendToURIPath(rootURI, experimentID)
}

// BuildRunArtifactURI composes a run's artifact_uri given its
// experiment's artifact_location.
func BuildRunArtifactURI(experimentArtifactLocation, runID string) string {
	return appendToURIPath(experimentArtifactLocation, runID, "artifacts")
}

// appendToURIPath appends segments to the path component of base,
// preserving any query/fragment verbatim, per the rules:
//
//   - non-file schemes: append to the URL path, leave query/fragment as-is.
//   - file: URIs: preserve scheme/host/query/fragment, append to path.
//   - no scheme (a local path): resolve relative paths against the
//     current working directory, then append.
func appendToURIPath(base string, segments ...string) string {
	suffix := strings.Join(segments, "/")

	loc := schemePattern.FindString(base)
	scheme := strings.TrimSuffix(loc, ":")
	if loc == "" || len(scheme) == 1 {
		// No scheme, or a single letter that is far more likely a
		// Windows drive letter than a URI scheme: treat as a local
		// path.
		return joinLocalPath(base, suffix)
	}

	if strings.EqualFold(scheme, "file") {
		return appendToFileURI(base, suffix)
	}
	return appendToGenericURI(base, suffix)
}

func joinLocalPath(base, suffix string) string {
	if !path.IsAbs(base) {
		if cwd, err := os.Getwd(); err == nil {
			base = path.Join(filepath.ToSlash(cwd), base)
		}
	}
	return strings.TrimRight(base, "/") + "/" + suffix
}

func appendToFileURI(base, suffix string) string {
	u, err := url.Parse(base)
	if err != nil {
		return joinLocalPath(base, suffix)
	}

	if u.Opaque != "" {
		// "file:path/to/folder" form: no authority, Opaque holds the
		// (possibly relative) path.
		p := u.Opaque
		if !path.IsAbs(p) {
			if cwd, err := os.Getwd(); err == nil {
				p = path.Join(filepath.ToSlash(cwd), p)
			}
		}
		var b strings.Builder
		b.WriteString("file://")
		b.WriteString(strings.TrimRight(p, "/"))
		b.WriteString("/")
		b.WriteString(suffix)
		if u.RawQuery != "" {
			b.WriteString("?")
			b.WriteString(u.RawQuery)
		}
		if u.Fragment != "" {
			b.WriteString("#")
			b.WriteString(u.EscapedFragment())
		}
		return b.String()
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/" + suffix
	return u.String()
}

func appendToGenericURI(base, suffix string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + suffix
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + suffix
	return u.String()
}
