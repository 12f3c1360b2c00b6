package toolpath

import (
	"errors"
	"os/exec"
	"slices"
	"sync/atomic"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		paths     map[string]string
		unix      bool
		name      string
		want      string
		wantCalls []string
	}{
		"found on posix host": {
			paths:     map[string]string{"make": "/usr/bin/make"},
			unix:      true,
			name:      "make",
			want:      "/usr/bin/make",
			wantCalls: []string{"make"},
		},
		"not found on posix host falls back to literal": {
			paths:     map[string]string{},
			unix:      true,
			name:      "gcc",
			want:      "gcc",
			wantCalls: []string{"gcc"},
		},
		"posix host never retries with exe suffix": {
			paths:     map[string]string{"gcc.exe": "/odd/gcc.exe"},
			unix:      true,
			name:      "gcc",
			want:      "gcc",
			wantCalls: []string{"gcc"},
		},
		"windows host retries with exe suffix": {
			paths:     map[string]string{"cl.exe": `C:\tools\cl.exe`},
			unix:      false,
			name:      "cl",
			want:      `C:\tools\cl.exe`,
			wantCalls: []string{"cl", "cl.exe"},
		},
		"windows host keeps existing extension": {
			paths:     map[string]string{},
			unix:      false,
			name:      "build.bat",
			want:      "build.bat",
			wantCalls: []string{"build.bat"},
		},
		"windows host falls back to literal after both lookups": {
			paths:     map[string]string{},
			unix:      false,
			name:      "cl",
			want:      "cl",
			wantCalls: []string{"cl", "cl.exe"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var calls []string
			r := NewResolver(func(n string) (string, error) {
				calls = append(calls, n)
				if p, ok := tc.paths[n]; ok {
					return p, nil
				}
				return "", errors.New("executable file not found")
			}, tc.unix)

			if got := r.Resolve(tc.name); got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.name, got, tc.want)
			}
			if !slices.Equal(calls, tc.wantCalls) {
				t.Errorf("lookup calls = %v, want %v", calls, tc.wantCalls)
			}
		})
	}
}

func TestResolver_Resolve_DotRelativeResult(t *testing.T) {
	t.Parallel()

	// exec.LookPath returns a usable path together with ErrDot for
	// dot-relative results. Resolve must treat that as not found and
	// hand back the literal name.
	r := NewResolver(func(name string) (string, error) {
		return "./tool", exec.ErrDot
	}, true)

	if got := r.Resolve("tool"); got != "tool" {
		t.Errorf("Resolve(%q) = %q, want literal %q", "tool", got, "tool")
	}
}

func TestResolver_ResolveCaches(t *testing.T) {
	t.Parallel()

	var calls int
	r := NewResolver(func(name string) (string, error) {
		calls++
		return "/usr/bin/" + name, nil
	}, true)

	for i := 0; i < 3; i++ {
		if got := r.Resolve("make"); got != "/usr/bin/make" {
			t.Fatalf("Resolve() = %q, want %q", got, "/usr/bin/make")
		}
	}
	if calls != 1 {
		t.Errorf("lookup called %d times for one name, want 1", calls)
	}

	if got := r.Resolve("tar"); got != "/usr/bin/tar" {
		t.Fatalf("Resolve() = %q, want %q", got, "/usr/bin/tar")
	}
	if calls != 2 {
		t.Errorf("lookup called %d times for two names, want 2", calls)
	}
}

func TestResolver_ConcurrentFirstLookupIsShared(t *testing.T) {
	t.Parallel()

	var (
		entered = make(chan struct{})
		release = make(chan struct{})
		calls   atomic.Int64
	)
	r := NewResolver(func(name string) (string, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return "/usr/bin/" + name, nil
	}, true)

	const waiters = 8
	results := make(chan string, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			results <- r.Resolve("make")
		}()
	}

	<-entered
	close(release)

	for i := 0; i < waiters; i++ {
		if got := <-results; got != "/usr/bin/make" {
			t.Errorf("Resolve() = %q, want %q", got, "/usr/bin/make")
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("lookup called %d times under concurrency, want 1", n)
	}
}
