package exec

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jmgilman/runx/internal/envmap"
)

// composeEnv builds the child environment: the full inherited environment,
// then the overlay (Runner defaults already folded in by normalize), then
// the PreferLocal PATH adjustment, with color forcing applied last so the
// tri-state policy wins over any explicitly overlaid color variables.
func composeEnv(base []string, overlay map[string]string, o Options) []string {
	env := envmap.Overlay(envmap.FromList(base), overlay)

	if o.PreferLocal != nil && *o.PreferLocal {
		env["PATH"] = localBinPath(o.Dir, env["PATH"])
	}

	switch o.Colors {
	case ColorsOn:
		env["FORCE_COLOR"] = "1"
		env["CLICOLOR_FORCE"] = "1"
		delete(env, "NO_COLOR")
	case ColorsOff:
		env["NO_COLOR"] = "1"
		env["TERM"] = "dumb"
		env["CLICOLOR"] = "0"
		env["CLICOLOR_FORCE"] = "0"
		env["FORCE_COLOR"] = "0"
	}

	return envmap.ToList(env)
}

// localBinDirs lists the project-local binary directories for dir, in
// resolution order.
func localBinDirs(dir string) []string {
	if dir == "" {
		dir = "."
	}
	return []string{
		filepath.Join(dir, "node_modules", ".bin"),
		filepath.Join(dir, "bin"),
	}
}

// localBinPath prepends the project-local binary directories for dir to
// an existing PATH value.
func localBinPath(dir, path string) string {
	locals := localBinDirs(dir)
	if path != "" {
		locals = append(locals, path)
	}
	return strings.Join(locals, string(os.PathListSeparator))
}

// resolveLocalExecutable resolves an argv command name against the
// project-local binary directories. os/exec looks a bare name up on the
// parent's PATH, not the child environment's, so the local directories
// have to be probed here. The name comes back unchanged when it already
// carries a path or no local candidate is executable; resolution then
// falls to the parent's PATH as usual.
func resolveLocalExecutable(dir, name string) string {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}

	for _, d := range localBinDirs(dir) {
		candidate, err := filepath.Abs(filepath.Join(d, name))
		if err != nil {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
			continue
		}
		return candidate
	}
	return name
}
