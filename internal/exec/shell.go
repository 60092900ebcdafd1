package exec

import (
	"os"
	"path/filepath"
)

// defaultShell interprets shell-string commands and is the fallback for
// RealShell mode when $SHELL is unset.
const defaultShell = "/bin/sh"

// spawnArgs resolves a composed command into the executable and argument
// list handed to the spawn primitive. Shell strings go through the system
// shell; argv commands are passed literally.
func spawnArgs(c Command) (name string, args []string) {
	if c.IsArgv() {
		argv := c.Args()
		return argv[0], argv[1:]
	}
	return defaultShell, []string{"-c", c.shell}
}

// loginShellArgs resolves the user's interactive shell for RealShell
// mode, so commands see startup files and aliases. The flag shape depends
// on the shell family.
func loginShellArgs(command string) (name string, args []string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = defaultShell
	}

	switch filepath.Base(shell) {
	case "bash", "zsh", "fish":
		return shell, []string{"-i", "-c", command}
	case "cmd", "cmd.exe":
		return shell, []string{"/c", command}
	case "powershell", "powershell.exe", "pwsh", "pwsh.exe":
		return shell, []string{"-NoExit", "-Command", command}
	default:
		return shell, []string{"-c", command}
	}
}
