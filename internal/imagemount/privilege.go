package imagemount

import "os/exec"

// escalators are the privilege-escalation helpers recognized for
// prefixing the mount invocation, in preference order.
var escalators = []string{"sudo", "doas", "run0"}

// FindEscalator returns the resolved path of the first available
// escalation helper, or "" if none is on PATH. Running without one is
// allowed; the mount utility enforces privilege itself.
func FindEscalator() string {
	return findEscalator(exec.LookPath)
}

func findEscalator(look func(string) (string, error)) string {
	for _, name := range escalators {
		if path, err := look(name); err == nil {
			return path
		}
	}
	return ""
}
