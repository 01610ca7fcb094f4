package container_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/armature-go/armature/framework/container"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Concurrent first-resolution of a singleton: the factory must run exactly
// once, and every caller must observe the same instance.
func TestSingleton_ConcurrentFirstResolution_ConstructsOnce(t *testing.T) {
	c := container.New()

	var constructions atomic.Int64
	_ = c.Singleton((*Repository)(nil), func() *Repository {
		constructions.Add(1)
		return &Repository{}
	})

	const workers = 32
	results := make([]*Repository, workers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i] = container.MustResolve[*Repository](c)
		}(i)
	}
	start.Done()
	done.Wait()

	if got := constructions.Load(); got != 1 {
		t.Errorf("constructions: got %d, want 1", got)
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d observed a different instance", i)
		}
	}
}

// Steady-state reads: registrations done, many goroutines resolving a mix of
// transient and singleton keys must not race.
func TestMake_ConcurrentSteadyStateReads(t *testing.T) {
	c := container.New()
	_ = c.Instance((*Settings)(nil), &Settings{DSN: "memory://"})
	_ = c.Singleton((*Repository)(nil), func(s *Settings) *Repository { return &Repository{Settings: s} })
	_ = c.Bind((*Service)(nil), func(r *Repository) *Service { return &Service{Repo: r} })

	var done sync.WaitGroup
	done.Add(16)
	for i := 0; i < 16; i++ {
		go func() {
			defer done.Done()
			for j := 0; j < 100; j++ {
				svc := container.MustResolve[*Service](c)
				if svc.Repo.Settings.DSN != "memory://" {
					t.Error("resolved graph lost its configuration")
					return
				}
			}
		}()
	}
	done.Wait()
}
