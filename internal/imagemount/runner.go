package imagemount

import (
	"errors"
	"os"
	"os/exec"
)

// Runner executes external tools. Output captures stdout; Run reports the
// child's exit status alongside any error. Tests substitute a fake.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
	Run(name string, args ...string) (int, error)
}

// RunnerConfig is the environment applied to every invocation. Forcing a
// fixed locale and disabling color keeps the tools' text output parseable;
// it is passed here explicitly rather than mutated into the process
// environment.
type RunnerConfig struct {
	ExtraEnv []string
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		ExtraEnv: []string{"LC_ALL=C", "LANG=C", "NO_COLOR=1"},
	}
}

type execRunner struct {
	config RunnerConfig
}

func NewRunner(config RunnerConfig) Runner {
	return &execRunner{config: config}
}

func (r *execRunner) command(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), r.config.ExtraEnv...)
	return cmd
}

func (r *execRunner) Output(name string, args ...string) ([]byte, error) {
	return r.command(name, args...).Output()
}

func (r *execRunner) Run(name string, args ...string) (int, error) {
	cmd := r.command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	return -1, err
}
