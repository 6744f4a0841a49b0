package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) Create(ctx context.Context) error {
	f.calls = append(f.calls, "create")
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, artworkID, path string) error {
	f.calls = append(f.calls, "upload "+artworkID+" "+path)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"me",
		"create",
		"upload a-1 ./pic.png",
		"logout",
		"exit",
		"me",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "me", "create", "upload a-1 ./pic.png", "logout"}, exec.calls)
}

func TestRunREPL_UsageUnknownAndEOF(t *testing.T) {
	out := silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("upload only-id\nfoobar\nregister")))

	assert.Equal(t, []string{"register"}, exec.calls)
	assert.Contains(t, *out, "Usage: upload <artworkID> <file>")
	assert.Contains(t, *out, "Unknown command: foobar")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := silence(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "s" }, bufio.NewReader(strings.NewReader("help\nquit\n")))
	assert.Contains(t, *out, "Available commands: register, login, exit")

	*out = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "s" }, bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, *out, "Available commands: me, create, upload <artworkID> <file>, logout, exit")
}
