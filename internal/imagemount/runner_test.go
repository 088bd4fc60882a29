package imagemount

import (
	"errors"
	"fmt"
)

// fakeRunner substitutes for the exec-backed Runner. Output responses
// are keyed by command name; Run calls are recorded for assertions.
type fakeRunner struct {
	outputs    map[string]string
	outputErrs map[string]error
	runStatus  int
	runCalls   [][]string
	outCalls   [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs:    map[string]string{},
		outputErrs: map[string]error{},
	}
}

func (f *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	f.outCalls = append(f.outCalls, append([]string{name}, args...))
	if err, ok := f.outputErrs[name]; ok {
		return nil, err
	}
	text, ok := f.outputs[name]
	if !ok {
		return nil, errors.New("unexpected command: " + name)
	}
	return []byte(text), nil
}

func (f *fakeRunner) Run(name string, args ...string) (int, error) {
	f.runCalls = append(f.runCalls, append([]string{name}, args...))
	if f.runStatus != 0 {
		return f.runStatus, fmt.Errorf("exit status %d", f.runStatus)
	}
	return 0, nil
}
